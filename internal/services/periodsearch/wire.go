package periodsearch

import (
	"github.com/Paintersrp/periodsearch/internal/destination"
	"github.com/Paintersrp/periodsearch/internal/mirror"
	"github.com/Paintersrp/periodsearch/internal/prompt"
	"github.com/Paintersrp/periodsearch/internal/state"
)

// Deps are the optional collaborators of a command-line run.
type Deps struct {
	Prompter prompt.Prompter
	Opener   destination.Opener
	Mirror   mirror.Uploader
	Render   func(markdown string) (string, error)
}

// FromState wires a service against the active workspace.
func FromState(st *state.State, deps Deps) *Service {
	settings := st.Workspace.Search
	router := &destination.Router{
		Store:    st.Store,
		Opener:   deps.Opener,
		Mirror:   deps.Mirror,
		Log:      st.Logger,
		Render:   deps.Render,
		Settings: RouterSettings(settings),
	}
	return NewService(st.Store, router, deps.Prompter, st.Logger, settings)
}
