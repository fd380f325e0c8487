// Package gripper drives a Robotiq adaptive gripper (2F-85, 2F-140) over
// MODBUS RTU on an RS-485 serial link.
//
// # Usage
//
//	g, err := gripper.New(nil)
//	if err != nil { ... }
//	if err := g.Connect(gripper.DefaultPort, gripper.DefaultBaud, -0.086, 0.086); err != nil { ... }
//	defer g.Close()
//
//	ctx := context.Background()
//	_ = g.Reset(ctx, true)
//	_ = g.Activate(ctx, true)
//	_ = g.SetPosition(ctx, 0.043, true)
//	fb, err := g.Feedback(ctx)
//
// # Scaling
//
// The device works in raw position words, 0 (open) to 255 (closed). A
// [Scale] set at Connect maps them linearly to caller units:
//
//	position = alpha/255 * word + beta
//
// With alpha = -0.086 and beta = 0.086 positions are finger openings in
// meters for a 2F-85: 0.086 open, 0 closed.
//
// # Exchanges
//
// Every command is one request followed by exactly one response read with
// the session's receive timeout. Preset commands (reset, activate, position)
// must be answered with [modbus.PresetAck]; anything else, including no
// answer at all, fails the command with [ErrProtocolMismatch] or
// [ErrTimeout]. Nothing is retried automatically.
//
// # Blocking commands
//
// With blocking set, a command returns only after feedback polling shows
// the gripper reached the commanded state: reset waits for NotActivated,
// activate for Activated (followed by a settle delay) and position
// commands for the fingers to stop. The wait is unbounded by default; bound
// it with a context deadline or [WithMaxPollAttempts].
package gripper
