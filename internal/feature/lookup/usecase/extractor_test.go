package usecase_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"snapshop_backend/internal/feature/lookup/domain/entity"
	"snapshop_backend/internal/feature/lookup/usecase"
)

func TestExtractAttributes_Brand(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		ann  entity.Annotations
		want string
	}{
		{
			name: "logo description in mixed case",
			ann:  entity.Annotations{Logos: []string{"NIKE"}},
			want: "Nike",
		},
		{
			name: "brand found in ocr text",
			ann:  entity.Annotations{Texts: []string{"Vintage Adidas Originals"}},
			want: "Adidas",
		},
		{
			name: "multi word brand from web entities",
			ann:  entity.Annotations{WebEntities: []string{"The North Face Nuptse"}},
			want: "The North Face",
		},
		{
			name: "table order decides between two brands",
			ann:  entity.Annotations{Logos: []string{"Adidas"}, Texts: []string{"nike"}},
			want: "Nike",
		},
		{
			name: "no brand",
			ann:  entity.Annotations{Labels: []string{"Sleeve", "Collar"}},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := usecase.ExtractAttributes(tt.ann)
			assert.Equal(t, tt.want, got.Brand)
		})
	}
}

func TestExtractAttributes_Category(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		ann  entity.Annotations
		want string
	}{
		{
			name: "t-shirt group from label",
			ann:  entity.Annotations{Labels: []string{"T-shirt", "Sleeve"}},
			want: "t-shirt",
		},
		{
			name: "jersey maps to t-shirt",
			ann:  entity.Annotations{Objects: []string{"Jersey"}},
			want: "t-shirt",
		},
		{
			name: "sweatshirt resolves to hoodie before shirt",
			ann:  entity.Annotations{Labels: []string{"Sweatshirt", "Shirt"}},
			want: "hoodie",
		},
		{
			name: "earliest group wins when several match",
			ann:  entity.Annotations{Labels: []string{"Top", "Denim", "Jacket"}},
			want: "jacket",
		},
		{
			name: "no category",
			ann:  entity.Annotations{Labels: []string{"Fashion design"}},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := usecase.ExtractAttributes(tt.ann)
			assert.Equal(t, tt.want, got.Category)
		})
	}
}

func TestExtractAttributes_Colors(t *testing.T) {
	t.Parallel()

	t.Run("text colors come before dominant colors", func(t *testing.T) {
		t.Parallel()
		ann := entity.Annotations{
			Labels:         []string{"Black", "White"},
			DominantColors: []entity.DominantColor{{R: 200, G: 30, B: 45, Score: 0.4}},
		}
		got := usecase.ExtractAttributes(ann)
		assert.Equal(t, []string{"black", "white", "red"}, got.Colors)
	})

	t.Run("duplicates are removed", func(t *testing.T) {
		t.Parallel()
		ann := entity.Annotations{
			Labels: []string{"Black"},
			DominantColors: []entity.DominantColor{
				{R: 5, G: 5, B: 5},
				{R: 10, G: 8, B: 12},
			},
		}
		got := usecase.ExtractAttributes(ann)
		assert.Equal(t, []string{"black"}, got.Colors)
	})

	t.Run("never more than three", func(t *testing.T) {
		t.Parallel()
		ann := entity.Annotations{
			Texts: []string{"red blue green yellow pink"},
			DominantColors: []entity.DominantColor{
				{R: 0, G: 0, B: 0},
				{R: 255, G: 255, B: 255},
			},
		}
		got := usecase.ExtractAttributes(ann)
		assert.Len(t, got.Colors, usecase.MaxColors)
	})

	t.Run("only the first five dominant colors are sampled", func(t *testing.T) {
		t.Parallel()
		ann := entity.Annotations{
			DominantColors: []entity.DominantColor{
				{R: 0, G: 0, B: 0},
				{R: 1, G: 1, B: 1},
				{R: 2, G: 2, B: 2},
				{R: 3, G: 3, B: 3},
				{R: 4, G: 4, B: 4},
				{R: 255, G: 255, B: 255},
			},
		}
		got := usecase.ExtractAttributes(ann)
		assert.Equal(t, []string{"black"}, got.Colors)
	})
}

func TestNearestColorName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		r, g, b float64
		want    string
	}{
		{0, 0, 0, "black"},
		{250, 250, 250, "white"},
		{130, 125, 130, "gray"},
		{25, 35, 90, "navy"},
		{230, 200, 160, "beige"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, usecase.NearestColorName(tt.r, tt.g, tt.b))
	}
}

func TestExtractAttributes_Patterns(t *testing.T) {
	t.Parallel()

	ann := entity.Annotations{
		Labels:      []string{"Striped", "Pattern"},
		WebEntities: []string{"Floral shirt", "Camouflage"},
		Texts:       []string{"plaid"},
	}
	got := usecase.ExtractAttributes(ann)

	// ocr text is not used for patterns
	assert.Equal(t, []string{"striped", "floral", "camo"}, got.Patterns)
}

func TestExtractAttributes_TextsAreCopied(t *testing.T) {
	t.Parallel()

	texts := []string{"JUST DO IT"}
	got := usecase.ExtractAttributes(entity.Annotations{Texts: texts})
	texts[0] = "changed"

	assert.Equal(t, []string{"JUST DO IT"}, got.Texts)
}
