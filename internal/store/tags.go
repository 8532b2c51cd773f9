package store

import "encoding/json"

// Tag lists are persisted as JSON-encoded text columns, not native
// arrays. Every repository with a tag-like field goes through this
// pair so the stringify-on-write, parse-with-fallback-on-read rule
// lives in one place.

func encodeTags(tags []string) []byte {
	if tags == nil {
		tags = []string{}
	}
	data, err := json.Marshal(tags)
	if err != nil {
		return []byte("[]")
	}
	return data
}

func decodeTags(data []byte) []string {
	var tags []string
	if err := json.Unmarshal(data, &tags); err != nil || tags == nil {
		return []string{}
	}
	return tags
}
