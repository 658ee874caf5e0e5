package tomlconfig

import "github.com/pelletier/go-toml/v2"

// CurrentInputFormatVersion is compared against a parsed document's
// simulation_info.input_format_version; Migrate brings an older document
// up to this version.
const CurrentInputFormatVersion = 1

// Migrate rewrites an older-versioned TOML document into the current
// input format. Rather than invent speculative field renames, Migrate
// only does the one rewrite every version of the format needs
// regardless of what changed before it: stamping a missing
// input_format_version with CurrentInputFormatVersion. Additional
// rewrites belong here once a future version actually needs one.
func Migrate(data []byte) ([]byte, int, error) {
	var raw map[string]interface{}
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, 0, err
	}

	simInfo, _ := raw["simulation_info"].(map[string]interface{})
	fromVersion := 0
	if simInfo != nil {
		if v, ok := simInfo["input_format_version"]; ok {
			if iv, ok := toInt(v); ok {
				fromVersion = iv
			}
		}
	}

	if fromVersion >= CurrentInputFormatVersion {
		return data, fromVersion, nil
	}

	if simInfo == nil {
		simInfo = map[string]interface{}{}
		raw["simulation_info"] = simInfo
	}
	simInfo["input_format_version"] = CurrentInputFormatVersion

	out, err := toml.Marshal(raw)
	if err != nil {
		return nil, 0, err
	}
	return out, fromVersion, nil
}

func toInt(v interface{}) (int, bool) {
	switch n := v.(type) {
	case int64:
		return int(n), true
	case int:
		return n, true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}
