package classify

// Alias maps a sanitized folder-name substring onto a canonical value.
type Alias struct {
	Alias string
	Value string
}

// DefaultAuthor is returned when no author alias matches.
const DefaultAuthor = "unknown"

// TypeAliases is the builtin mod-type table. Order breaks length ties.
var TypeAliases = []Alias{
	{"idle", "idle"},
	{"standing", "idle"},
	{"stand", "idle"},
	{"idleanim", "idle"},
	{"loop", "idle"},
	{"lobby", "idle"},
	{"illustration", "idle"},
	{"illust", "idle"},

	{"burst", "cutscene"},
	{"cutscene", "cutscene"},
	{"cut", "cutscene"},
	{"cs", "cutscene"},
	{"skillcut", "cutscene"},
	// misspellings seen in the wild
	{"stkillcut", "cutscene"},
	{"skullcut", "cutscene"},
	{"skillcit", "cutscene"},
	{"specialillustration", "cutscene"},
	{"specialillust", "cutscene"},

	{"history", "history"},
	{"story", "history"},
	{"plot", "history"},

	{"date", "date"},
	{"dating", "date"},

	{"minigame", "minigame"},
	{"swap", "swap"},

	{"battle", "battle"},
	{"combat", "battle"},

	{"hud", "ui"},
	{"interface", "ui"},
}

// AuthorAliases is the builtin author table.
var AuthorAliases = []Alias{
	{"mrmiagi", "MrMiagi"},
}
