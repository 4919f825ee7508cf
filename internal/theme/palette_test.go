package theme

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/missionboard/internal/model"
)

func TestLighten(t *testing.T) {
	got, err := Lighten("#5A9AA8", 0.2)
	require.NoError(t, err)
	assert.Equal(t, "#7baeb9", got)

	got, err = Lighten("#FFFFFF", 0.5)
	require.NoError(t, err)
	assert.Equal(t, "#ffffff", got)
}

func TestDarken(t *testing.T) {
	got, err := Darken("#5A9AA8", 0.15)
	require.NoError(t, err)
	assert.Equal(t, "#4c828e", got)

	got, err = Darken("#000000", 0.5)
	require.NoError(t, err)
	assert.Equal(t, "#000000", got)
}

func TestTextColor(t *testing.T) {
	tests := []struct {
		bg   string
		want string
	}{
		{"#C4DDE0", TextOnLight},
		{"#F5E6D3", TextOnLight},
		{"#000000", TextOnDark},
		{"#2C4A52", TextOnDark},
	}
	for _, tt := range tests {
		t.Run(tt.bg, func(t *testing.T) {
			got, err := TextColor(tt.bg)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestInvalidColor(t *testing.T) {
	_, err := Lighten("teal", 0.1)
	assert.Error(t, err)

	_, err = TextColor("#12")
	assert.Error(t, err)
}

func TestFromPreferences(t *testing.T) {
	pal, err := FromPreferences(model.UserPreferences{
		PrimaryColor: "#5A9AA8",
		AccentColor:  "#D4A574",
	})
	require.NoError(t, err)

	assert.Equal(t, "#5A9AA8", pal.Primary)
	assert.Equal(t, "#7baeb9", pal.PrimaryLight)
	assert.Equal(t, "#4c828e", pal.PrimaryDark)
	assert.Equal(t, model.DefaultBackgroundBaseColor, pal.Base)
	assert.Equal(t, model.DefaultBackgroundSurfaceColor, pal.Surface)
	assert.Equal(t, TextOnLight, pal.TextPrimary)
	assert.Equal(t, SuccessColor, pal.Success)
	assert.Equal(t, ErrorColor, pal.Error)

	_, err = FromPreferences(model.UserPreferences{PrimaryColor: "blue"})
	assert.Error(t, err)
}

func TestNewStyles(t *testing.T) {
	s := DefaultStyles()
	assert.Equal(t, Default(), s.Palette)
	assert.NotEmpty(t, s.Header.Render("missionboard"))
	assert.Contains(t, s.CategoryBadge("Work", ""), "Work")
}
