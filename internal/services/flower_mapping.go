package services

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Mapping from classifier vocabulary (Oxford Flowers labels) to the flower
// names the shop actually sells. The tables are fixed at build time and never
// mutated; everything below is a pure function of its input.

// fallbackFlowerName is returned for blank input where callers forgot to
// guard, so downstream search never sees an empty flower name.
const fallbackFlowerName = "Hoa"

// priorityFlowers lists the flower kinds the shop commonly sells. Labels
// matching one of these (substring in either direction) pass the priority
// filter on classifier output.
var priorityFlowers = []string{
	// Best sellers
	"rose",
	"sunflower",
	"lily",
	"orchid",
	"carnation",
	"tulip",
	"daisy",
	"chrysanthemum",

	// Popular flowers
	"hydrangea",
	"peony",
	"lotus",
	"jasmine",
	"lavender",
	"gerbera",
	"dahlia",

	// Special occasions
	"iris",
	"magnolia",
	"camellia",
	"azalea",
	"hibiscus",
}

// flowerNameEntry pairs a classifier label with the shop's catalog name.
// Kept as an ordered slice so substring matching is deterministic: the first
// entry that matches wins.
type flowerNameEntry struct {
	Label     string
	Canonical string
}

var flowerNameMapping = []flowerNameEntry{
	// Roses
	{"rose", "Hồng"},

	// Sunflowers
	{"sunflower", "Hướng Dương"},

	// Lilies
	{"lily", "Lily"},
	{"tiger lily", "Lily"},
	{"fire lily", "Lily"},
	{"peruvian lily", "Lily"},
	{"canna lily", "Lily"},
	{"toad lily", "Lily"},
	{"blackberry lily", "Lily"},
	{"giant white arum lily", "Lily"},
	{"water lily", "Súng"},

	// Orchids
	{"orchid", "Lan"},
	{"moon orchid", "Lan"},
	{"hard-leaved pocket orchid", "Lan"},

	// Carnations
	{"carnation", "Cẩm Chướng"},
	{"sweet william", "Cẩm Chướng"},

	// Tulips
	{"tulip", "Tulip"},
	{"siam tulip", "Tulip"},

	// Daisies and chrysanthemums
	{"daisy", "Cúc"},
	{"oxeye daisy", "Cúc"},
	{"barbeton daisy", "Cúc"},
	{"black-eyed susan", "Cúc"},
	{"mexican aster", "Cúc"},
	{"purple coneflower", "Cúc"},
	{"gazania", "Cúc"},
	{"osteospermum", "Cúc"},

	// Hydrangea
	{"hydrangea", "Cẩm Tú Cầu"},

	// Dahlia
	{"dahlia", "Thược Dược"},
	{"orange dahlia", "Thược Dược"},
	{"pink-yellow dahlia", "Thược Dược"},

	// Iris
	{"iris", "Diên Vĩ"},
	{"yellow iris", "Diên Vĩ"},
	{"bearded iris", "Diên Vĩ"},

	// Magnolia
	{"magnolia", "Mộc Lan"},

	// Camellia
	{"camellia", "Trà"},

	// Azalea
	{"azalea", "Đỗ Quyên"},

	// Hibiscus
	{"hibiscus", "Dâm Bụt"},

	// Lotus
	{"lotus", "Sen"},

	// Gerbera
	{"gerbera", "Đồng Tiền"},

	// Poinsettia
	{"poinsettia", "Trạng Nguyên"},

	// Anthurium
	{"anthurium", "Hồng Môn"},

	// Marigold
	{"marigold", "Vạn Thọ"},
	{"english marigold", "Vạn Thọ"},

	// Petunia
	{"petunia", "Dạ Yến Thảo"},
	{"mexican petunia", "Dạ Yến Thảo"},

	// Others mapped to the closest shop name
	{"bird of paradise", "Thiên Điểu"},
	{"snapdragon", "Mõm Sói"},
	{"daffodil", "Thủy Tiên"},
	{"primrose", "Anh Thảo"},
	{"pink primrose", "Anh Thảo"},
	{"sweet pea", "Đậu Hà Lan"},
	{"grape hyacinth", "Đậu Biếc"},
	{"primula", "Anh Thảo"},
	{"clematis", "Tơ Hồng"},
	{"morning glory", "Bìm Bìm"},
	{"passion flower", "Lạc Tiên"},
	{"bougainvillea", "Giấy"},
	{"geranium", "Phong Lữ"},
	{"pelargonium", "Phong Lữ"},
	{"balloon flower", "Cát Cánh"},
	{"windflower", "Hải Quỳ"},
	{"columbine", "Huyền Sâm"},
	{"foxglove", "Mao Địa Hoàng"},
	{"buttercup", "Mao Lương"},
	{"dandelion", "Bồ Công Anh"},
	{"common dandelion", "Bồ Công Anh"},
	{"poppy", "Anh Túc"},
	{"corn poppy", "Anh Túc"},
	{"californian poppy", "Anh Túc"},
	{"tree poppy", "Anh Túc"},
}

// flowerNameIndex supports the exact-match fast path
var flowerNameIndex = func() map[string]string {
	index := make(map[string]string, len(flowerNameMapping))
	for _, entry := range flowerNameMapping {
		index[entry.Label] = entry.Canonical
	}
	return index
}()

// defaultFlowerColors lists the colors offered by default for each catalog
// flower name
var defaultFlowerColors = map[string][]string{
	"Hồng":        {"Đỏ", "Hồng", "Trắng", "Vàng"},
	"Hướng Dương": {"Vàng", "Cam"},
	"Lily":        {"Trắng", "Hồng", "Cam", "Vàng"},
	"Lan":         {"Trắng", "Tím", "Hồng"},
	"Cẩm Chướng":  {"Đỏ", "Hồng", "Trắng"},
	"Tulip":       {"Đỏ", "Hồng", "Vàng", "Tím", "Trắng"},
	"Cúc":         {"Trắng", "Vàng", "Hồng"},
	"Thược Dược":  {"Đỏ", "Hồng", "Cam", "Vàng"},
	"Diên Vĩ":     {"Tím", "Vàng", "Trắng"},
	"Sen":         {"Hồng", "Trắng"},
	"Đồng Tiền":   {"Đỏ", "Cam", "Vàng", "Hồng"},
}

// fallbackColors is used for catalog names without a dedicated palette
var fallbackColors = []string{"Đỏ", "Hồng", "Trắng", "Vàng"}

// IsPriorityFlower reports whether a classifier label names a flower kind
// the shop commonly sells. Matching is lenient: the lower-cased label may
// contain a priority name or be contained in one. Blank input is never a
// priority flower.
func IsPriorityFlower(label string) bool {
	if strings.TrimSpace(label) == "" {
		return false
	}

	lower := strings.ToLower(label)

	for _, priority := range priorityFlowers {
		if strings.Contains(lower, priority) || strings.Contains(priority, lower) {
			return true
		}
	}

	_, ok := flowerNameIndex[lower]
	return ok
}

// NormalizedFlowerName maps a classifier label to the shop's catalog name.
// Exact matches win; otherwise the first mapping entry that substring-matches
// (in either direction) is used. Labels the shop has no name for come back
// with just the first letter capitalized. Blank input yields the fixed
// placeholder name.
//
// The substring pass is a deliberately lenient heuristic and can mismatch
// labels that embed another label ("rosemary" contains "rose"); callers
// accept that in exchange for covering classifier vocabulary drift.
func NormalizedFlowerName(label string) string {
	if strings.TrimSpace(label) == "" {
		return fallbackFlowerName
	}

	lower := strings.ToLower(label)

	if canonical, ok := flowerNameIndex[lower]; ok {
		return canonical
	}

	for _, entry := range flowerNameMapping {
		if strings.Contains(lower, entry.Label) || strings.Contains(entry.Label, lower) {
			return entry.Canonical
		}
	}

	return capitalizeFirst(label)
}

// DefaultColors returns the default color palette for a catalog flower name
func DefaultColors(canonicalName string) []string {
	if colors, ok := defaultFlowerColors[canonicalName]; ok {
		return append([]string(nil), colors...)
	}
	return append([]string(nil), fallbackColors...)
}

func capitalizeFirst(s string) string {
	first, size := utf8.DecodeRuneInString(s)
	if first == utf8.RuneError && size <= 1 {
		return s
	}
	return string(unicode.ToUpper(first)) + strings.ToLower(s[size:])
}
