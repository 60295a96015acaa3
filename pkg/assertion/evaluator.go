package assertion

import "digital.vasic.matchers/pkg/matcher"

// Builder builds matchers from definitions. Factories use it to
// build their children.
type Builder interface {
	Build(def Definition) (matcher.Matcher[any], error)
}

// Factory builds the matcher for one definition type. It returns
// an error when the definition is malformed, for example a
// missing value or an invalid regular expression.
type Factory func(b Builder, def Definition) (matcher.Matcher[any], error)
