// Package scenario loads scripted toast timelines from YAML and plays them
// against a toast manager.
package scenario

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/hay-kot/criterio"
	"gopkg.in/yaml.v3"

	"github.com/colonyops/toastkit/internal/core/toast"
)

// Scenario is a named, ordered list of steps.
type Scenario struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Steps       []Step `yaml:"steps"`

	// Path is the file the scenario was loaded from.
	Path string `yaml:"-"`
}

// Step performs exactly one action at an offset from the scenario start.
type Step struct {
	At         time.Duration `yaml:"at"`
	Enqueue    *EnqueueStep  `yaml:"enqueue,omitempty"`
	Dismiss    string        `yaml:"dismiss,omitempty"`
	DismissAll bool          `yaml:"dismiss_all,omitempty"`
}

// EnqueueStep posts a toast. Ref names the toast for later dismiss steps.
// Action is the label of the toast's action, if it has one.
type EnqueueStep struct {
	Ref         string        `yaml:"ref"`
	Variant     string        `yaml:"variant"`
	Title       string        `yaml:"title"`
	Description string        `yaml:"description"`
	Duration    time.Duration `yaml:"duration"`
	Persistent  bool          `yaml:"persistent"`
	Action      string        `yaml:"action"`
}

// Request converts the step into a manager request.
func (e EnqueueStep) Request() toast.Request {
	req := toast.Request{
		Variant:     toast.Variant(e.Variant),
		Title:       e.Title,
		Description: e.Description,
		Duration:    e.Duration,
		Persistent:  e.Persistent,
	}
	if e.Action != "" {
		req.Action = e.Action
	}
	return req
}

// Load reads a scenario file. A scenario without a name is named after
// its file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}

	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}

	if sc.Name == "" {
		sc.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	sc.Path = path

	if err := sc.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scenario %s: %w", path, err)
	}

	return &sc, nil
}

// Validate checks the scenario structure. Dismiss steps may name refs that
// were never enqueued; those steps are no-ops at run time.
func (s *Scenario) Validate() error {
	var errs criterio.FieldErrorsBuilder

	if strings.TrimSpace(s.Name) == "" {
		errs = errs.Append("name", errors.New("is required"))
	}
	if len(s.Steps) == 0 {
		errs = errs.Append("steps", errors.New("at least one step is required"))
	}

	refs := make(map[string]int)
	var prev time.Duration
	for i, step := range s.Steps {
		field := fmt.Sprintf("steps[%d]", i)

		if step.At < 0 {
			errs = errs.Append(field+".at", fmt.Errorf("must not be negative, got %s", step.At))
		} else if step.At < prev {
			errs = errs.Append(field+".at", fmt.Errorf("%s is before the previous step (%s)", step.At, prev))
		}
		prev = max(prev, step.At)

		if n := step.actions(); n != 1 {
			errs = errs.Append(field, fmt.Errorf("must set exactly one of enqueue, dismiss, dismiss_all (got %d)", n))
		}

		if step.Enqueue == nil {
			continue
		}

		e := step.Enqueue
		if strings.TrimSpace(e.Description) == "" {
			errs = errs.Append(field+".enqueue.description", errors.New("is required"))
		}
		if e.Duration < 0 {
			errs = errs.Append(field+".enqueue.duration", fmt.Errorf("must not be negative, got %s", e.Duration))
		}
		if e.Variant != "" && !toast.Variant(e.Variant).IsValid() {
			errs = errs.Append(field+".enqueue.variant", fmt.Errorf("unknown variant %q (available: %v)", e.Variant, toast.Variants()))
		}
		if e.Ref != "" {
			if first, dup := refs[e.Ref]; dup {
				errs = errs.Append(field+".enqueue.ref", fmt.Errorf("ref %q already used by steps[%d]", e.Ref, first))
			} else {
				refs[e.Ref] = i
			}
		}
	}

	return errs.ToError()
}

func (s Step) actions() int {
	n := 0
	if s.Enqueue != nil {
		n++
	}
	if s.Dismiss != "" {
		n++
	}
	if s.DismissAll {
		n++
	}
	return n
}

// Discover expands doublestar patterns into a sorted, de-duplicated list
// of files. Every pattern must match at least one file.
func Discover(patterns ...string) ([]string, error) {
	seen := make(map[string]struct{})
	var out []string

	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("expand %q: %w", pattern, err)
		}

		if len(matches) == 0 {
			return nil, fmt.Errorf("no scenario files match %q", pattern)
		}

		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			out = append(out, m)
		}
	}

	slices.Sort(out)
	return out, nil
}
