// Package settings persists which environment (sandbox or production) each
// supplier action targets.
//
// The document is read from the Store on every lookup so an update made by
// another process or replica takes effect on the next call. Absent or
// unreadable state resolves to sandbox.
package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"supplier-gateway/internal/model"
)

// Key is the store key of the settings document.
const Key = "supplier-settings.json"

// Settings maps supplier key to action to environment.
type Settings map[string]map[model.Action]model.Environment

// Defaults returns sandbox for every action of every supplier.
func Defaults(suppliers []string) Settings {
	s := make(Settings, len(suppliers))
	for _, supplier := range suppliers {
		s.fill(strings.ToUpper(supplier))
	}
	return s
}

func (s Settings) fill(supplier string) {
	actions, ok := s[supplier]
	if !ok {
		actions = make(map[model.Action]model.Environment, len(model.Actions))
		s[supplier] = actions
	}
	for _, a := range model.Actions {
		if _, ok := actions[a]; !ok {
			actions[a] = model.EnvSandbox
		}
	}
}

// Router resolves and updates the effective environment per (supplier, action).
type Router struct {
	store     Store
	suppliers []string
	logger    *slog.Logger

	// mu serializes read-modify-write updates within this process.
	mu sync.Mutex
}

// NewRouter creates a router. suppliers are always present in Settings output.
func NewRouter(store Store, suppliers []string, logger *slog.Logger) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	upper := make([]string, len(suppliers))
	for i, s := range suppliers {
		upper[i] = strings.ToUpper(s)
	}
	sort.Strings(upper)
	return &Router{store: store, suppliers: upper, logger: logger}
}

// Settings returns the persisted document merged over the defaults.
func (r *Router) Settings(ctx context.Context) Settings {
	s := Defaults(r.suppliers)

	data, err := r.store.Get(ctx, Key)
	switch {
	case errors.Is(err, ErrNotFound):
		return s
	case err != nil:
		r.logger.WarnContext(ctx, "settings unreadable, using defaults", slog.String("error", err.Error()))
		return s
	}

	var raw map[string]map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		r.logger.WarnContext(ctx, "settings malformed, using defaults", slog.String("error", err.Error()))
		return s
	}

	for supplier, actions := range raw {
		supplier = strings.ToUpper(supplier)
		s.fill(supplier)
		for actionName, envName := range actions {
			action, err := model.ParseAction(actionName)
			if err != nil {
				continue
			}
			env, err := model.ParseEnvironment(envName)
			if err != nil {
				r.logger.WarnContext(ctx, "ignoring invalid environment in settings",
					slog.String("supplier", supplier),
					slog.String("action", actionName),
					slog.String("value", envName),
				)
				continue
			}
			s[supplier][action] = env
		}
	}
	return s
}

// EffectiveEnvironment returns the environment for one supplier action,
// sandbox when nothing is persisted.
func (r *Router) EffectiveEnvironment(ctx context.Context, supplier string, action model.Action) model.Environment {
	s := r.Settings(ctx)
	if env, ok := s[strings.ToUpper(supplier)][action]; ok {
		return env
	}
	return model.EnvSandbox
}

// SetEnvironment persists one (supplier, action) entry and returns the full document.
func (r *Router) SetEnvironment(ctx context.Context, supplier string, action model.Action, env model.Environment) (Settings, error) {
	if supplier == "" {
		return nil, model.NewValidationError("supplier", "required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	s := r.Settings(ctx)
	supplier = strings.ToUpper(supplier)
	s.fill(supplier)
	s[supplier][action] = env

	if err := r.save(ctx, s); err != nil {
		return nil, err
	}
	r.logger.InfoContext(ctx, "supplier environment updated",
		slog.String("supplier", supplier),
		slog.String("action", string(action)),
		slog.String("environment", string(env)),
	)
	return s, nil
}

// Replace overwrites the whole document. Values are validated before anything
// is written; missing entries are filled with sandbox.
func (r *Router) Replace(ctx context.Context, raw map[string]map[string]string) (Settings, error) {
	s := Defaults(r.suppliers)
	for supplier, actions := range raw {
		supplier = strings.ToUpper(supplier)
		s.fill(supplier)
		for actionName, envName := range actions {
			action, err := model.ParseAction(actionName)
			if err != nil {
				return nil, model.NewValidationError("action", err.Error())
			}
			env, err := model.ParseEnvironment(envName)
			if err != nil {
				return nil, model.NewValidationError("environment", err.Error())
			}
			s[supplier][action] = env
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.save(ctx, s); err != nil {
		return nil, err
	}
	r.logger.InfoContext(ctx, "supplier settings replaced", slog.Int("suppliers", len(s)))
	return s, nil
}

func (r *Router) save(ctx context.Context, s Settings) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}
	if err := r.store.Set(ctx, Key, data); err != nil {
		return model.NewInternalError(fmt.Errorf("saving settings: %w", err))
	}
	return nil
}
