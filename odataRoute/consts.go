package odataRoute

const (
	ANNOTATION_PREFIX = `@odata.`
	COMMA             = `,`
	EQUALS            = `=`
	LEFT_BRACKET      = `(`
	QUOTE             = `'`
	RIGHT_BRACKET     = `)`
	VALUE             = `value`
)
