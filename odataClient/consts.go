package odataClient

// Headers and media types sent to OData services.
const (
	ACCEPT                = `Accept`
	APPLICATION_JSON      = `application/json`
	CONTENT_TYPE          = `Content-Type`
	DATA_SERVICE_VERSION  = `DataServiceVersion`
	JSON_MINIMAL_METADATA = `application/json;odata.metadata=minimal`
	ODATA_VERSION         = `OData-Version`
	PREFER                = `Prefer`
	RETURN_REPRESENTATION = `return=representation`
	VERSION_4             = `4.0`
	SLASH                 = `/`
)

// Bodies larger than this are decoded with sonic instead of encoding/json.
const largeBodySize = 10240
