package httpx

import (
	jsoniter "github.com/json-iterator/go"
)

// json is the codec used for all JSON bodies. The
// standard-library-compatible configuration keeps encoding/json
// semantics (sorted map keys, HTML escaping).
var json = jsoniter.ConfigCompatibleWithStandardLibrary
