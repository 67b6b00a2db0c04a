// Package angle provides explicit-unit angular quantities.
//
// All values are stored canonically in degrees and constructed through the
// unit-named constructors:
//
//   - [Angle]: position ([Deg], [Arcmin], [Arcsec], [Rad])
//   - [Speed]: rate in degrees per second
//   - [Accel]: rate of change of speed
//   - [Range]: closed angular interval
//
// Quantity strings from configuration files are read with [Parse],
// [ParseSpeed] and [ParseAccel]; bare unitless numbers are rejected.
package angle
