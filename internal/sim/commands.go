package sim

import "time"

type CommandType string

const (
	CmdLaunch   CommandType = "launch"
	CmdSequence CommandType = "sequence"
	CmdHold     CommandType = "hold"
	CmdResume   CommandType = "resume"
	CmdAbort    CommandType = "abort"
	CmdStop     CommandType = "stop"
)

type Command interface {
	Type() CommandType
	ReceivedAt() time.Time
}

// LaunchCommand replaces whatever is flying with a single engagement.
type LaunchCommand struct {
	At    time.Time
	ID    string `json:"id,omitempty"`
	Scene Scene  `json:"scene"`
}

func (c LaunchCommand) Type() CommandType     { return CmdLaunch }
func (c LaunchCommand) ReceivedAt() time.Time { return c.At }

// SequenceCommand flies scenes back to back, starting over when Loop is set.
type SequenceCommand struct {
	At     time.Time
	ID     string  `json:"id,omitempty"`
	Scenes []Scene `json:"scenes"`
	Loop   bool    `json:"loop,omitempty"`
}

func (c SequenceCommand) Type() CommandType     { return CmdSequence }
func (c SequenceCommand) ReceivedAt() time.Time { return c.At }

// HoldCommand freezes the active engagement.
type HoldCommand struct{ At time.Time }

func (c HoldCommand) Type() CommandType     { return CmdHold }
func (c HoldCommand) ReceivedAt() time.Time { return c.At }

type ResumeCommand struct{ At time.Time }

func (c ResumeCommand) Type() CommandType     { return CmdResume }
func (c ResumeCommand) ReceivedAt() time.Time { return c.At }

// AbortCommand drops the active engagement and moves on to the next queued one.
type AbortCommand struct{ At time.Time }

func (c AbortCommand) Type() CommandType     { return CmdAbort }
func (c AbortCommand) ReceivedAt() time.Time { return c.At }

// StopCommand drops the active engagement and the queue.
type StopCommand struct{ At time.Time }

func (c StopCommand) Type() CommandType     { return CmdStop }
func (c StopCommand) ReceivedAt() time.Time { return c.At }
