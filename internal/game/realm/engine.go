package realm

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/warlord/internal/game/catalog"
)

// Engine applies commands to States against a sealed catalog. It holds no
// game state of its own and is safe for concurrent use.
type Engine struct {
	reg    *catalog.Registry
	logger *zap.Logger
	newID  func(prefix string) string
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. A nil logger is ignored.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithIDSource overrides how unit, batch and building ids are generated.
func WithIDSource(fn func(prefix string) string) Option {
	return func(e *Engine) { e.newID = fn }
}

func uuidID(prefix string) string {
	return prefix + "_" + uuid.NewString()[:8]
}

// NewEngine creates an Engine over reg.
//
// Precondition: reg must not be nil.
func NewEngine(reg *catalog.Registry, opts ...Option) *Engine {
	if reg == nil {
		panic("realm.NewEngine: registry must not be nil")
	}
	e := &Engine{reg: reg, logger: zap.NewNop(), newID: uuidID}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Catalog returns the registry the engine resolves ids against.
func (e *Engine) Catalog() *catalog.Registry { return e.reg }

func (e *Engine) reject(cmd string, s State, err error) (State, error) {
	e.logger.Debug("command rejected",
		zap.String("command", cmd),
		zap.Int("day", s.Day),
		zap.Error(err),
	)
	return s, err
}

func (e *Engine) accept(cmd string, s State, fields ...zap.Field) {
	e.logger.Info(cmd, append([]zap.Field{zap.Int("day", s.Day)}, fields...)...)
}
