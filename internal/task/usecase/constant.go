package usecase

const (
	LogPrefixList   = "task.usecase.List"
	LogPrefixSearch = "task.usecase.Search"
	LogPrefixDetail = "task.usecase.Detail"
	LogPrefixStats  = "task.usecase.Stats"

	// searchLimit caps a free-text search.
	searchLimit = 50
)
