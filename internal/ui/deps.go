// Package ui assembles one browser window: the main loop, the tab store,
// the coordinators and the terminal tab strip.
package ui

import (
	"context"
	"errors"
	"io"

	"github.com/bnema/tabshell/internal/application/port"
	"github.com/bnema/tabshell/internal/application/usecase"
	"github.com/bnema/tabshell/internal/infrastructure/config"
	"github.com/bnema/tabshell/internal/infrastructure/filtering"
	"github.com/bnema/tabshell/internal/infrastructure/pages"
	"github.com/bnema/tabshell/internal/ui/component"
)

// Dependencies holds everything a Window is built from. It is created once
// at startup by the browse command.
type Dependencies struct {
	Ctx    context.Context
	Config *config.Config
	// InitialURL is opened in the first tab; empty opens the home page.
	InitialURL string
	// Private opens the first tab in its own storage partition.
	Private bool

	Host  port.ViewHost
	Pages *pages.Server

	HistoryUC    *usecase.RecordHistoryUseCase
	PermissionUC *usecase.ArbitratePermissionUseCase

	// Optional collaborators.
	Filter *filtering.Manager
	Colors port.ColorExtractor
	Theme  *component.Theme

	// StripIn and StripOut override the terminal used by the tab strip.
	StripIn  io.Reader
	StripOut io.Writer
}

// Validate reports missing required dependencies.
func (d *Dependencies) Validate() error {
	var errs []error
	if d.Ctx == nil {
		errs = append(errs, errors.New("context is required"))
	}
	if d.Config == nil {
		errs = append(errs, errors.New("config is required"))
	}
	if d.Host == nil {
		errs = append(errs, errors.New("view host is required"))
	}
	if d.Pages == nil {
		errs = append(errs, errors.New("pages server is required"))
	} else if d.Pages.Origin() == "" {
		errs = append(errs, errors.New("pages server must be listening"))
	}
	if d.HistoryUC == nil {
		errs = append(errs, errors.New("history use case is required"))
	}
	if d.PermissionUC == nil {
		errs = append(errs, errors.New("permission use case is required"))
	}
	return errors.Join(errs...)
}
