// https://api.romaji2kana.com
package romaji2kana

// Endpoint is a conversion path on the Romaji2Kana API.
type Endpoint string

const (
	EndpointToRomaji   Endpoint = "/v1/to/romaji"
	EndpointToHiragana Endpoint = "/v1/to/hiragana"
	EndpointToKatakana Endpoint = "/v1/to/katakana"
)

// Response is the body of GET {endpoint}?q={text}.
type Response struct {
	A string `json:"a"`
}
