// Package tool exposes shop operations as function tools a conversational
// model can call. Every tool answers with one sentence-sized string meant to
// be spoken back to the customer.
package tool

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nikolayk812/voiceshop/internal/domain"
	"github.com/nikolayk812/voiceshop/internal/log"
	"github.com/sirupsen/logrus"
)

var ErrUnknownTool = errors.New("unknown tool")

// Handler runs one tool call against the caller's session.
// A returned error means the call itself was malformed; business outcomes,
// including failures, are reported in the string.
type Handler func(ctx context.Context, session *domain.Session, args Args) (string, error)

// Tool represents a function that the model can invoke during conversation.
type Tool struct {
	// Name is the unique identifier for the tool (e.g., "add_to_cart").
	Name string `json:"name"`

	// Description explains what the tool does, helping the model decide when to use it.
	Description string `json:"description"`

	// Parameters is the JSON schema of the arguments.
	Parameters map[string]any `json:"parameters"`

	Handler Handler `json:"-"`
}

type Registry struct {
	tools map[string]Tool
	names []string
}

func NewRegistry(toolsets ...[]Tool) (*Registry, error) {
	r := &Registry{tools: make(map[string]Tool)}

	for _, set := range toolsets {
		for _, t := range set {
			if t.Name == "" {
				return nil, fmt.Errorf("tool name is empty")
			}
			if t.Handler == nil {
				return nil, fmt.Errorf("tool[%s] has no handler", t.Name)
			}
			if _, ok := r.tools[t.Name]; ok {
				return nil, fmt.Errorf("tool[%s] is duplicated", t.Name)
			}
			r.tools[t.Name] = t
			r.names = append(r.names, t.Name)
		}
	}

	return r, nil
}

// Tools returns the definitions in registration order.
func (r *Registry) Tools() []Tool {
	out := make([]Tool, 0, len(r.names))
	for _, name := range r.names {
		out = append(out, r.tools[name])
	}
	return out
}

func (r *Registry) Invoke(ctx context.Context, session *domain.Session, name string, args Args) (string, error) {
	t, ok := r.tools[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}
	if args == nil {
		args = Args{}
	}

	started := time.Now()
	result, err := t.Handler(ctx, session, args)

	entry := log.With("tool").WithFields(logrus.Fields{
		"tool":       name,
		"session_id": session.ID,
		"took":       time.Since(started),
	})
	if err != nil {
		entry.WithError(err).Warn("tool call rejected")
		return "", fmt.Errorf("tool[%s]: %w", name, err)
	}
	entry.Debug("tool call")

	return result, nil
}

func object(required []string, properties map[string]any) map[string]any {
	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func prop(typ, description string) map[string]any {
	return map[string]any{
		"type":        typ,
		"description": description,
	}
}
