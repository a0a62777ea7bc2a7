package obs

import (
	"go.uber.org/zap"

	"github.com/goliatone/go-heroes-auth"
)

// AuthLogger adapts zap to auth.Logger. Arguments are key/value pairs.
type AuthLogger struct {
	s *zap.SugaredLogger
}

var _ auth.Logger = (*AuthLogger)(nil)

func NewAuthLogger(l *zap.Logger, name string) *AuthLogger {
	if l == nil {
		l = zap.NewNop()
	}
	if name != "" {
		l = l.Named(name)
	}
	return &AuthLogger{s: l.WithOptions(zap.AddCallerSkip(1)).Sugar()}
}

func (a *AuthLogger) Debug(msg string, args ...any) { a.s.Debugw(msg, args...) }
func (a *AuthLogger) Info(msg string, args ...any)  { a.s.Infow(msg, args...) }
func (a *AuthLogger) Warn(msg string, args ...any)  { a.s.Warnw(msg, args...) }
func (a *AuthLogger) Error(msg string, args ...any) { a.s.Errorw(msg, args...) }
