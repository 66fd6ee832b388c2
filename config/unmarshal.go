package config

import (
	"encoding/json"
	"io"
	"io/ioutil"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/clear-ness/view-counter/model"
)

const (
	formatJson = "json"
	formatYaml = "yaml"
)

// formatForPath picks the encoding of a config file from its extension.
func formatForPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return formatYaml
	default:
		return formatJson
	}
}

func marshalConfig(cfg *model.Config, format string) ([]byte, error) {
	if format != formatYaml {
		return json.MarshalIndent(cfg, "", "    ")
	}

	// go through json so that yaml keys match the json field names
	b, err := json.Marshal(cfg)
	if err != nil {
		return nil, err
	}

	var generic map[string]interface{}
	if err = json.Unmarshal(b, &generic); err != nil {
		return nil, err
	}

	return yaml.Marshal(generic)
}

func unmarshalConfig(r io.Reader, format string) (*model.Config, error) {
	configData, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, err
	}

	if format == formatYaml {
		var generic map[string]interface{}
		if err = yaml.Unmarshal(configData, &generic); err != nil {
			return nil, err
		}

		if configData, err = json.Marshal(generic); err != nil {
			return nil, err
		}
	}

	var config model.Config
	if err = json.Unmarshal(configData, &config); err != nil {
		return nil, err
	}

	return &config, nil
}
