// Package drive provides the shared primitives of the axis control loop.
//
//   - [Space]: resolves which mod-360 representative of a target to drive to
//   - [Limits]: per-axis hardware and soft drive envelopes
//   - [Driver]: the motor+encoder capability surface
//   - [Registry]: static name-to-driver selection
//
// # Errors
//
// Operations fail with the package sentinels [ErrOutOfRange], [ErrStaleTick],
// [ErrConfig] and [ErrUnknownDriver]; wrap detail is attached with %w so
// callers can match with errors.Is.
package drive
