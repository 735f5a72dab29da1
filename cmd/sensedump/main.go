// Command sensedump opens the Sense HAT sensor stack and prints whatever
// field groups are valid each cycle. Polling cadence is caller business:
// the bridge never sleeps, this program does.
package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"sensehat-go/bus"
	"sensehat-go/fusion"
	"sensehat-go/imu"
	"sensehat-go/settings"
)

func main() {
	var (
		busOverride  = flag.String("bus", "", "I2C bus (overrides the settings file)")
		settingsName = flag.String("settings", imu.DefaultSettingsName, "settings source name")
		count        = flag.Int("n", 0, "number of readings to print (0 = forever)")
		interval     = flag.Duration("interval", 20*time.Millisecond, "poll interval")
		noGyro       = flag.Bool("no-gyro", false, "disable the gyroscope group")
		noAccel      = flag.Bool("no-accel", false, "disable the accelerometer group")
		noCompass    = flag.Bool("no-compass", false, "disable the compass group")
	)
	flag.Parse()

	var i2c *bus.I2C
	h, err := imu.Open(imu.Config{
		Settings: *settingsName,
		NewEngine: func(st *settings.Settings) (imu.Engine, error) {
			path := *busOverride
			if path == "" {
				path = st.BusPath
			}
			b, err := bus.Open(path)
			if err != nil {
				return nil, err
			}
			i2c = b
			return fusion.New(b, st)
		},
	})
	if err != nil {
		log.Fatalf("open: %v", err)
	}
	defer func() {
		if err := h.Close(); err != nil {
			log.Printf("close: %v", err)
		}
		if i2c != nil {
			i2c.Close()
		}
	}()

	h.SetSensorEnable(!*noGyro, !*noAccel, !*noCompass)

	printed := 0
	var snap imu.Snapshot
	for *count == 0 || printed < *count {
		if !h.PumpReading() {
			time.Sleep(*interval)
			continue
		}
		if err := h.Extract(&snap); err != nil {
			log.Fatalf("extract: %v", err)
		}
		dump(&snap)
		printed++
	}
}

func dump(s *imu.Snapshot) {
	fmt.Printf("t=%d", s.Timestamp)
	if s.FusionPoseValid {
		fmt.Printf(" pose=(%.3f %.3f %.3f)rad", s.FusionPose.X, s.FusionPose.Y, s.FusionPose.Z)
	}
	if s.GyroValid {
		fmt.Printf(" gyro=(%.3f %.3f %.3f)rad/s", s.Gyro.X, s.Gyro.Y, s.Gyro.Z)
	}
	if s.AccelValid {
		fmt.Printf(" accel=(%.3f %.3f %.3f)g", s.Accel.X, s.Accel.Y, s.Accel.Z)
	}
	if s.CompassValid {
		fmt.Printf(" mag=(%.1f %.1f %.1f)uT", s.Compass.X, s.Compass.Y, s.Compass.Z)
	}
	if s.PressureValid {
		fmt.Printf(" p=%.2fhPa", s.Pressure)
	}
	if s.TemperatureValid {
		fmt.Printf(" T=%.2fC", s.Temperature)
	}
	if s.HumidityValid {
		fmt.Printf(" rh=%.1f%%", s.Humidity)
	}
	fmt.Println()
}
