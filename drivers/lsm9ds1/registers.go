package lsm9ds1

// Accelerometer/gyroscope registers (address 0x6A).
const (
	regAGWhoAmI  = 0x0F
	regCtrl1G    = 0x10
	regCtrl3G    = 0x12
	regOutTempL  = 0x15
	regStatusReg = 0x17
	regOutXLG    = 0x18
	regCtrl6XL   = 0x20
	regCtrl7XL   = 0x21
	regCtrl8     = 0x22
	regCtrl9     = 0x23
	regOutXLXL   = 0x28

	agWhoAmI = 0x68

	statusAccelReady = 0x01
	statusGyroReady  = 0x02
)

// Magnetometer registers (address 0x1C).
const (
	regMagWhoAmI  = 0x0F
	regCtrl1M     = 0x20
	regCtrl2M     = 0x21
	regCtrl3M     = 0x22
	regCtrl4M     = 0x23
	regStatusRegM = 0x27
	regOutXLM     = 0x28

	magWhoAmI = 0x3D

	statusMagReady = 0x08 // ZYXDA

	// ST convention: set the sub-address MSB for multi-byte access on the
	// magnetometer die.
	magAutoIncrement = 0x80
)

// Sensitivities at the configured full-scale settings.
const (
	gyroDpsPerLSB = 0.00875  // ±245 dps
	accelGPerLSB  = 0.000061 // ±2 g
	magUTPerLSB   = 0.014    // ±4 gauss, in µT
)
