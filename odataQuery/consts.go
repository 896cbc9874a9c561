package odataQuery

// OData system query options, in the order they are emitted.
const (
	EXPAND      = `$expand`
	FILTER      = `$filter`
	INLINECOUNT = `$inlinecount`
	ORDERBY     = `$orderby`
	SELECT      = `$select`
	SKIP        = `$skip`
	TOP         = `$top`
	FORMAT      = `$format`

	ALLPAGES = `allpages`
	AND      = `and`
	COMMA    = `,`
	EQUALS   = `=`
	QUESTION = `?`
	TRUE     = `true`
)
