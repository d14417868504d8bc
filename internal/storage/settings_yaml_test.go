package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"clickbreak/internal/core/model"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	store := NewStoreAt(filepath.Join(t.TempDir(), "settings.yaml"))

	settings, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if settings != model.DefaultSettings() {
		t.Errorf("settings = %+v, want defaults", settings)
	}
}

func TestSaveThenLoad(t *testing.T) {
	store := NewStoreAt(filepath.Join(t.TempDir(), "nested", "settings.yaml"))
	want := model.Settings{DisplayName: "Ada", ClickGoal: 250}

	if err := store.Save(want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != want {
		t.Errorf("Load = %+v, want %+v", got, want)
	}
}

func TestSaveRejectsInvalidGoal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	store := NewStoreAt(path)

	err := store.Save(model.Settings{DisplayName: "Ada", ClickGoal: 0})
	if !errors.Is(err, model.ErrInvalidClickGoal) {
		t.Fatalf("Save error = %v, want ErrInvalidClickGoal", err)
	}
	if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
		t.Error("settings file should not be written")
	}
}

func TestLoadFileContents(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    model.Settings
		wantErr bool
	}{
		{
			name:    "full",
			content: "display_name: Grace\nclick_goal: 42\n",
			want:    model.Settings{DisplayName: "Grace", ClickGoal: 42},
		},
		{
			name:    "partial keeps default goal",
			content: "display_name: Grace\n",
			want:    model.Settings{DisplayName: "Grace", ClickGoal: model.DefaultClickGoal},
		},
		{
			name:    "non-positive goal ignored",
			content: "click_goal: -5\n",
			want:    model.DefaultSettings(),
		},
		{
			name:    "blank name normalized",
			content: "display_name: \"   \"\nclick_goal: 7\n",
			want:    model.Settings{DisplayName: model.DefaultDisplayName, ClickGoal: 7},
		},
		{
			name:    "malformed",
			content: "click_goal: [oops\n",
			want:    model.DefaultSettings(),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "settings.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}
			got, err := NewStoreAt(path).Load()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Load error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Load = %+v, want %+v", got, tt.want)
			}
		})
	}
}
