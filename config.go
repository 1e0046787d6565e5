package dynecs

import (
	"github.com/TheBitDrifter/table"
	"go.uber.org/zap"
)

// Config holds process-wide knobs for the engine. There is no file/env
// loader here: an embedded query engine has no deployment-time
// configuration surface, so the only state worth holding globally is the
// storage-level table event hooks and the fallback logger new worlds pick
// up when none is supplied explicitly.
var Config config = config{
	logger: zap.NewNop(),
}

type config struct {
	tableEvents table.TableEvents
	logger      *zap.Logger
}

// SetTableEvents configures the table event callbacks new archetypes are
// built with.
func (c *config) SetTableEvents(te table.TableEvents) {
	c.tableEvents = te
}

// SetLogger installs the default logger new worlds use when none is
// passed to NewWorld explicitly. Passing nil restores a no-op logger.
func (c *config) SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	c.logger = l
}
