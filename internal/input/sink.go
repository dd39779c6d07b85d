package input

import "log/slog"

// LogSurface is a Surface that records actions instead of injecting
// them. It stands in for the platform sink during development and in
// environments without a windowing runtime.
type LogSurface struct {
	TargetID string
	Applied  int
}

// NewLogSurface creates a logging sink for the given target surface id.
func NewLogSurface(targetID string) *LogSurface {
	return &LogSurface{TargetID: targetID}
}

func (s *LogSurface) Apply(action Action) error {
	s.Applied++
	slog.Info("input action",
		"target", s.TargetID,
		"kind", action.Kind.String(),
		"x", action.X,
		"y", action.Y,
		"key", action.Key,
		"modifiers", action.Modifiers,
	)
	return nil
}
