package usecase

import (
	"math"
	"strings"

	"snapshop_backend/internal/feature/lookup/domain/entity"
)

const (
	// MaxColors は属性レコードに保持する色の最大数です。
	MaxColors = 3
	// DominantColorSamples は最近傍色判定に使う支配色の数です。
	DominantColorSamples = 5
)

// keywordMapping はキーワードと正規化名の対応です。
type keywordMapping struct {
	keyword   string
	canonical string
}

// brandKeywords はブランド判定テーブルです。先に並んでいるものが優先されます。
var brandKeywords = []keywordMapping{
	{"nike", "Nike"},
	{"jordan", "Jordan"},
	{"adidas", "Adidas"},
	{"puma", "Puma"},
	{"under armour", "Under Armour"},
	{"new balance", "New Balance"},
	{"reebok", "Reebok"},
	{"the north face", "The North Face"},
	{"north face", "The North Face"},
	{"patagonia", "Patagonia"},
	{"ralph lauren", "Ralph Lauren"},
	{"polo ralph", "Ralph Lauren"},
	{"tommy hilfiger", "Tommy Hilfiger"},
	{"calvin klein", "Calvin Klein"},
	{"lacoste", "Lacoste"},
	{"levi", "Levi's"},
	{"gucci", "Gucci"},
	{"prada", "Prada"},
	{"louis vuitton", "Louis Vuitton"},
	{"balenciaga", "Balenciaga"},
	{"supreme", "Supreme"},
	{"stussy", "Stussy"},
	{"carhartt", "Carhartt"},
	{"champion", "Champion"},
	{"converse", "Converse"},
	{"uniqlo", "Uniqlo"},
	{"zara", "Zara"},
	{"h&m", "H&M"},
	{"shein", "Shein"},
}

// categoryGroup はカテゴリのキーワード群です。
type categoryGroup struct {
	canonical string
	keywords  []string
}

// categoryGroups はカテゴリ判定テーブルです。最初に一致したグループが採用されます。
// "sweatshirt" が "shirt" に吸われないよう、より具体的なグループを先に置いています。
var categoryGroups = []categoryGroup{
	{"hoodie", []string{"hoodie", "hooded", "sweatshirt"}},
	{"jacket", []string{"jacket", "coat", "parka", "blazer", "windbreaker"}},
	{"sweater", []string{"sweater", "cardigan", "pullover", "knitwear"}},
	{"dress", []string{"dress", "gown"}},
	{"jeans", []string{"jeans", "denim"}},
	{"shorts", []string{"shorts"}},
	{"pants", []string{"pants", "trousers", "chinos", "joggers", "leggings"}},
	{"skirt", []string{"skirt"}},
	{"sneakers", []string{"sneaker", "shoe", "footwear", "trainer"}},
	{"t-shirt", []string{"t-shirt", "tshirt", "tee", "shirt", "jersey", "top"}},
	{"bag", []string{"handbag", "backpack", "tote", "bag"}},
	{"hat", []string{"beanie", "baseball cap", "bucket hat", "snapback", "fedora"}},
}

// paletteColor はパレット上の色です。
type paletteColor struct {
	name     string
	keywords []string
	r, g, b  float64
}

// palette は色判定に使う固定パレットです。
var palette = []paletteColor{
	{"black", []string{"black"}, 0, 0, 0},
	{"white", []string{"white"}, 255, 255, 255},
	{"gray", []string{"gray", "grey"}, 128, 128, 128},
	{"red", []string{"red"}, 200, 30, 45},
	{"orange", []string{"orange"}, 245, 130, 30},
	{"yellow", []string{"yellow"}, 250, 215, 50},
	{"green", []string{"green", "olive"}, 40, 140, 70},
	{"blue", []string{"blue"}, 40, 90, 200},
	{"navy", []string{"navy"}, 20, 30, 80},
	{"purple", []string{"purple", "violet"}, 120, 60, 160},
	{"pink", []string{"pink"}, 240, 150, 190},
	{"brown", []string{"brown"}, 120, 75, 40},
	{"beige", []string{"beige", "khaki", "cream"}, 225, 205, 165},
}

// patternKeywords は柄判定のキーワード一覧です。
var patternKeywords = []keywordMapping{
	{"stripe", "striped"},
	{"plaid", "plaid"},
	{"tartan", "plaid"},
	{"check", "checkered"},
	{"floral", "floral"},
	{"flower", "floral"},
	{"camo", "camo"},
	{"polka dot", "polka dot"},
	{"tie-dye", "tie-dye"},
	{"tie dye", "tie-dye"},
	{"leopard", "leopard"},
	{"graphic", "graphic"},
	{"paisley", "paisley"},
}

// ExtractAttributes は注釈結果を属性レコードに縮約します。
func ExtractAttributes(ann entity.Annotations) entity.AttributeRecord {
	pooled := pooledText(ann)
	patternText := strings.ToLower(strings.Join(append(append([]string{}, ann.Labels...), ann.WebEntities...), " "))

	return entity.AttributeRecord{
		Brand:    resolveBrand(pooled),
		Category: resolveCategory(pooled),
		Colors:   resolveColors(pooled, ann.DominantColors),
		Patterns: resolvePatterns(patternText),
		Texts:    append([]string(nil), ann.Texts...),
	}
}

// pooledText はすべての注釈文字列を小文字で連結します。
func pooledText(ann entity.Annotations) string {
	var parts []string
	parts = append(parts, ann.Logos...)
	parts = append(parts, ann.Labels...)
	parts = append(parts, ann.Texts...)
	parts = append(parts, ann.WebEntities...)
	parts = append(parts, ann.Objects...)
	return strings.ToLower(strings.Join(parts, " "))
}

func resolveBrand(pooled string) string {
	for _, m := range brandKeywords {
		if strings.Contains(pooled, m.keyword) {
			return m.canonical
		}
	}
	return ""
}

func resolveCategory(pooled string) string {
	for _, g := range categoryGroups {
		for _, kw := range g.keywords {
			if strings.Contains(pooled, kw) {
				return g.canonical
			}
		}
	}
	return ""
}

// resolveColors はテキスト中の色名と支配色の最近傍色を合わせ、重複を除いて最大 MaxColors 件返します。
func resolveColors(pooled string, dominant []entity.DominantColor) []string {
	out := make([]string, 0, MaxColors)
	seen := make(map[string]struct{}, MaxColors)
	add := func(name string) {
		if len(out) >= MaxColors {
			return
		}
		if _, ok := seen[name]; ok {
			return
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}

	for _, c := range palette {
		for _, kw := range c.keywords {
			if strings.Contains(pooled, kw) {
				add(c.name)
				break
			}
		}
	}

	for i, dc := range dominant {
		if i >= DominantColorSamples {
			break
		}
		add(NearestColorName(dc.R, dc.G, dc.B))
	}
	return out
}

// NearestColorName はRGB空間のユークリッド距離で最も近いパレット色名を返します。
func NearestColorName(r, g, b float64) string {
	best := ""
	bestDist := math.MaxFloat64
	for _, c := range palette {
		d := math.Sqrt((r-c.r)*(r-c.r) + (g-c.g)*(g-c.g) + (b-c.b)*(b-c.b))
		if d < bestDist {
			bestDist = d
			best = c.name
		}
	}
	return best
}

func resolvePatterns(text string) []string {
	var out []string
	seen := map[string]struct{}{}
	for _, m := range patternKeywords {
		if !strings.Contains(text, m.keyword) {
			continue
		}
		if _, ok := seen[m.canonical]; ok {
			continue
		}
		seen[m.canonical] = struct{}{}
		out = append(out, m.canonical)
	}
	return out
}
