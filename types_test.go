package rab2html

// Notes:
// - RenderConfig: tests validation and defaulting of the per-site settings
// - Options: tests that options land in the converter configuration

import (
	"errors"
	"testing"
	"time"

	"github.com/alnah/go-rab2html/internal/logging"
	"github.com/alnah/go-rab2html/internal/rabbit"
)

// ---------------------------------------------------------------------------
// TestRenderConfig_Validate
// ---------------------------------------------------------------------------

func TestRenderConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     RenderConfig
		wantErr error
	}{
		{
			name:    "zero value needs an output base",
			cfg:     RenderConfig{},
			wantErr: ErrEmptyOutputBase,
		},
		{
			name:    "output base alone is valid",
			cfg:     RenderConfig{OutputBase: "_site"},
			wantErr: nil,
		},
		{
			name:    "explicit geometry",
			cfg:     RenderConfig{OutputBase: "_site", Width: 1024, Height: 768},
			wantErr: nil,
		},
		{
			name:    "negative width",
			cfg:     RenderConfig{OutputBase: "_site", Width: -640},
			wantErr: ErrInvalidGeometry,
		},
		{
			name:    "negative height",
			cfg:     RenderConfig{OutputBase: "_site", Height: -1},
			wantErr: ErrInvalidGeometry,
		},
		{
			name:    "warn alias",
			cfg:     RenderConfig{OutputBase: "_site", LogLevel: "warn"},
			wantErr: nil,
		},
		{
			name:    "unknown log level",
			cfg:     RenderConfig{OutputBase: "_site", LogLevel: "loud"},
			wantErr: rabbit.ErrUsage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRenderConfig_WithDefaults(t *testing.T) {
	t.Parallel()

	got := RenderConfig{OutputBase: "_site"}.withDefaults()
	want := RenderConfig{
		OutputBase: "_site",
		Width:      DefaultSlideWidth,
		Height:     DefaultSlideHeight,
		Template:   DefaultTemplate,
		LogLevel:   "info",
	}
	if got != want {
		t.Errorf("withDefaults() = %+v, want %+v", got, want)
	}

	custom := RenderConfig{OutputBase: "o", Width: 1, Height: 2, Template: "t", LogLevel: "debug"}
	if got := custom.withDefaults(); got != custom {
		t.Errorf("withDefaults() changed set fields: %+v", got)
	}
}

// ---------------------------------------------------------------------------
// TestOptions
// ---------------------------------------------------------------------------

func TestWithTimeout(t *testing.T) {
	t.Parallel()

	t.Run("sets timeout", func(t *testing.T) {
		t.Parallel()

		c := &Converter{}
		WithTimeout(5 * time.Second)(c)
		if c.cfg.timeout != 5*time.Second {
			t.Errorf("timeout = %v, want 5s", c.cfg.timeout)
		}
	})

	for _, d := range []time.Duration{0, -time.Second} {
		t.Run("panics on "+d.String(), func(t *testing.T) {
			t.Parallel()

			defer func() {
				if recover() == nil {
					t.Errorf("WithTimeout(%v) did not panic", d)
				}
			}()
			WithTimeout(d)
		})
	}
}

func TestOptions_Apply(t *testing.T) {
	t.Parallel()

	store := newMemoryStore()
	keep := NewKeepList("x")
	logger := logging.New(nil, logging.LevelDebug)
	r := &fileRasterizer{}

	c, err := NewConverter(
		WithRasterizer(r),
		WithStore(store),
		WithKeepList(keep),
		WithLogger(logger),
		WithWorkers(3),
	)
	if err != nil {
		t.Fatalf("NewConverter() unexpected error: %v", err)
	}

	if c.rasterizer != r || c.ownsRaster {
		t.Error("WithRasterizer not applied")
	}
	if c.store != store {
		t.Error("WithStore not applied")
	}
	if c.KeepList() != keep {
		t.Error("WithKeepList not applied")
	}
	if c.logger != logger {
		t.Error("WithLogger not applied")
	}
	if c.cfg.workers != 3 {
		t.Errorf("workers = %d, want 3", c.cfg.workers)
	}
}

func TestWithKeepList_Nil(t *testing.T) {
	t.Parallel()

	c, err := NewConverter(WithRasterizer(&fileRasterizer{}), WithKeepList(nil))
	if err != nil {
		t.Fatalf("NewConverter() unexpected error: %v", err)
	}
	if c.KeepList() == nil {
		t.Error("WithKeepList(nil) removed the keep-list")
	}
}
