package parse

type parseOpts struct {
	keepSpace bool
	lenient   bool
}

type ParseOption func(*parseOpts)

// KeepWhitespace leaves whitespace in patch text alone.  By default every
// whitespace character is removed from patch text before decoding, including
// whitespace inside string values.
func KeepWhitespace(v bool) ParseOption {
	return func(o *parseOpts) { o.keepSpace = v }
}

// Lenient accepts comments and trailing commas in both inputs.
func Lenient(v bool) ParseOption {
	return func(o *parseOpts) { o.lenient = v }
}

func makeOpts(opts []ParseOption) *parseOpts {
	res := &parseOpts{}
	for _, f := range opts {
		f(res)
	}
	return res
}
