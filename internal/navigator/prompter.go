package navigator

// Result is the outcome of one prompt step: either a selected value or an
// explicit cancellation. Cancellation is data, not control flow.
type Result[T any] struct {
	Value     T
	Cancelled bool
}

func Selected[T any](v T) Result[T] {
	return Result[T]{Value: v}
}

func Cancelled[T any]() Result[T] {
	return Result[T]{Cancelled: true}
}

// Prompter takes one piece of input from the user. Each call suspends the
// session until input is supplied or the prompt is aborted.
type Prompter interface {
	// Select presents labeled options and returns the index of the chosen one.
	Select(title string, options []string) (Result[int], error)
	// Number asks for an integer in [min, max], offering def as the default.
	Number(title string, def, min, max int) (Result[int], error)
}
