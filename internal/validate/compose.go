package validate

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	DefaultComposePath = "./orthanc/docker-compose.yml"
	OrthancService     = "orthanc"

	EnvOrthancJSON     = "ORTHANC_JSON"
	EnvDicomModalities = "ORTHANC__DICOM_MODALITIES"
)

var ErrComposeNotFound = errors.New("docker-compose file not found")

// Compose is a docker-compose document kept as loosely typed YAML so that unknown keys
// survive a round trip into the override file.
type Compose struct {
	Path string
	doc  map[string]any
}

func LoadCompose(path string) (*Compose, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w at %s", ErrComposeNotFound, path)
		}
		return nil, err
	}

	doc := map[string]any{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid YAML in %s: %w", path, err)
	}
	return &Compose{Path: path, doc: doc}, nil
}

// Service returns a shallow copy of a service definition.
func (c *Compose) Service(name string) (map[string]any, error) {
	services, ok := c.doc["services"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("no services defined in %s", c.Path)
	}
	service, ok := services[name].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("service %q not found in %s", name, c.Path)
	}

	clone := make(map[string]any, len(service))
	for k, v := range service {
		clone[k] = v
	}
	return clone, nil
}

// Environment returns the environment of a service. Compose accepts both a map and a
// list of KEY=VALUE entries.
func (c *Compose) Environment(name string) (map[string]string, error) {
	service, err := c.Service(name)
	if err != nil {
		return nil, err
	}

	env := map[string]string{}
	switch raw := service["environment"].(type) {
	case nil:
		return nil, fmt.Errorf("service %q has no environment", name)
	case map[string]any:
		for k, v := range raw {
			if v == nil {
				env[k] = ""
				continue
			}
			env[k] = fmt.Sprint(v)
		}
	case []any:
		for _, item := range raw {
			entry, ok := item.(string)
			if !ok {
				continue
			}
			key, value, _ := strings.Cut(entry, "=")
			env[key] = value
		}
	default:
		return nil, fmt.Errorf("service %q has an unsupported environment of type %T", name, raw)
	}
	return env, nil
}
