package tui

import (
	"github.com/wattjam/mpce/internal/compare"
	"github.com/wattjam/mpce/internal/domain"
)

// Scene identifies one screen of the browser.
type Scene int

const (
	SceneHome Scene = iota
	SceneResults
	SceneFSAE
	SceneHelp
)

func (s Scene) String() string {
	switch s {
	case SceneHome:
		return "Home"
	case SceneResults:
		return "Results"
	case SceneFSAE:
		return "FSA/HSA"
	case SceneHelp:
		return "Help"
	default:
		return "Unknown"
	}
}

// NavigateMsg switches the active scene.
type NavigateMsg struct {
	Scene Scene
}

// ErrorMsg surfaces an error to the status bar.
type ErrorMsg struct {
	Err error
}

// ConfigLoadedMsg carries the parsed configuration once the file finishes loading.
type ConfigLoadedMsg struct {
	Config *domain.Configuration
	Err    error
}

// CalculationCompleteMsg carries a finished MPCE calculate+compare run.
type CalculationCompleteMsg struct {
	Result     domain.EngineResult
	Comparison *compare.ComparisonSet
	Err        error
}

// FSAECompleteMsg carries a finished FSAE estimate.
type FSAECompleteMsg struct {
	Result domain.FSAEResult
	Err    error
}
