package grab

import (
	"github.com/plus3/grabfocus/ecs"
	"github.com/rs/zerolog"
)

// LogFocusState logs every pointer owner together with the lock it holds.
func LogFocusState(logger *zerolog.Logger, storage *ecs.Storage, level zerolog.Level) {
	owners := ecs.NewView[struct {
		Id ecs.EntityId
		*PointerOwner
	}](storage)

	total, holding := 0, 0
	arrayLogger := zerolog.Arr()
	for id, item := range owners.Iter() {
		total++
		dictLogger := zerolog.Dict().
			Stringer("owner", id).
			Stringer("view", item.View).
			Stringer("active", item.Touch.Active)
		if item.Holding() {
			holding++
			dictLogger = dictLogger.Stringer("target", item.PointerOwner.FocusTarget)
			if focus, ok := ecs.ReadComponentOk[FocusTarget](storage, item.PointerOwner.FocusTarget); ok {
				dictLogger = dictLogger.Floats64("position", focus.Position[:])
			}
		}
		arrayLogger = arrayLogger.Dict(dictLogger)
	}

	logger.WithLevel(level).
		Int("total_owners", total).
		Int("holding", holding).
		Array("owners", arrayLogger).
		Msg("focus state")
}
