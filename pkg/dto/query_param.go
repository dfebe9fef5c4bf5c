package dto

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

type Filter struct {
	Limit int    `query:"limit"`
	Page  int    `query:"page"`
	Q     string `query:"q"`
}

// Normalize clamps paging values into a usable range.
func (f Filter) Normalize() Filter {
	if f.Page < 1 {
		f.Page = 1
	}

	if f.Limit < 1 {
		f.Limit = DefaultLimit
	}

	if f.Limit > MaxLimit {
		f.Limit = MaxLimit
	}

	return f
}

func (f Filter) Skip() int64 {
	return int64(f.Page-1) * int64(f.Limit)
}
