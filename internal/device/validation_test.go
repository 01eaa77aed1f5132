package device

import (
	"errors"
	"strings"
	"testing"
)

func TestValidate(t *testing.T) {
	valid := func() *Device {
		return &Device{
			RoomID: "rom-test0001",
			Name:   "Ceiling Light",
			Type:   TypeLight,
			Status: StatusOff,
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Device)
		wantErr error
	}{
		{"valid", func(*Device) {}, nil},
		{"empty name", func(d *Device) { d.Name = " " }, ErrInvalidName},
		{"long name", func(d *Device) { d.Name = strings.Repeat("x", 101) }, ErrInvalidName},
		{"bad type", func(d *Device) { d.Type = "toaster" }, ErrInvalidType},
		{"bad status", func(d *Device) { d.Status = "dimmed" }, ErrInvalidStatus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := valid()
			tt.mutate(d)
			err := Validate(d)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateSettings(t *testing.T) {
	t.Run("nil settings", func(t *testing.T) {
		if err := ValidateSettings(nil); err != nil {
			t.Errorf("ValidateSettings(nil) = %v, want nil", err)
		}
	})

	t.Run("too many keys", func(t *testing.T) {
		s := make(Settings)
		for i := 0; i < maxMapKeys+1; i++ {
			s[strings.Repeat("k", i+1)] = i
		}
		if err := ValidateSettings(s); !errors.Is(err, ErrInvalidSettings) {
			t.Errorf("ValidateSettings = %v, want ErrInvalidSettings", err)
		}
	})

	t.Run("oversized string value", func(t *testing.T) {
		s := Settings{"note": strings.Repeat("a", maxStringValueLen+1)}
		if err := ValidateSettings(s); !errors.Is(err, ErrInvalidSettings) {
			t.Errorf("ValidateSettings = %v, want ErrInvalidSettings", err)
		}
	})

	t.Run("deep nesting", func(t *testing.T) {
		inner := map[string]any{"leaf": 1}
		for i := 0; i < maxNestingDepth+1; i++ {
			inner = map[string]any{"nested": inner}
		}
		if err := ValidateSettings(Settings(inner)); !errors.Is(err, ErrInvalidSettings) {
			t.Errorf("ValidateSettings = %v, want ErrInvalidSettings", err)
		}
	})
}

func TestDeepCopy(t *testing.T) {
	d := testDevice()
	d.LastData = Data{"nested": map[string]any{"value": 1.0}}

	copied := d.DeepCopy()
	copied.Settings["brightness"] = 0.0
	copied.LastData["nested"].(map[string]any)["value"] = 99.0

	if d.Settings["brightness"] == 0.0 {
		t.Error("DeepCopy shares the settings map")
	}
	if d.LastData["nested"].(map[string]any)["value"] == 99.0 {
		t.Error("DeepCopy shares nested data maps")
	}
}

func TestGenerateID(t *testing.T) {
	id := GenerateID()
	if !strings.HasPrefix(id, "dev-") {
		t.Errorf("GenerateID() = %q, want dev- prefix", id)
	}
	if id == GenerateID() {
		t.Error("GenerateID() returned duplicate values")
	}
}
