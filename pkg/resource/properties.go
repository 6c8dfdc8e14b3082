package resource

import (
	"io"
	"log"
	"os"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"
)

var (
	mu         sync.RWMutex
	properties = viper.New()
	envPattern = regexp.MustCompile(`\$\{([^:}]+)(?::([^}]*))?}`)
)

// Init loads application properties from a YAML file, replacing any previously loaded ones.
func Init(filepath string) error {
	file, err := os.Open(filepath)
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	return Load(file)
}

// Load loads application properties from a YAML document, replacing any previously loaded ones.
// String values of the form ${ENV_NAME:default} are resolved against the environment.
func Load(reader io.Reader) error {
	raw := viper.New()
	raw.SetConfigType("yml")
	if err := raw.ReadConfig(reader); err != nil {
		return err
	}

	flat := make(map[string]any)
	parsePropertiesMap("", raw.AllSettings(), flat)

	resolved := viper.New()
	for key, value := range flat {
		resolved.Set(key, value)
	}

	mu.Lock()
	properties = resolved
	mu.Unlock()
	return nil
}

// parsePropertiesMap reads recursively the YAML file
func parsePropertiesMap(prefix string, data map[string]any, result map[string]any) {
	for key, value := range data {
		fullKey := key
		if prefix != "" {
			fullKey = prefix + "." + key
		}

		switch v := value.(type) {
		case string:
			result[fullKey] = resolveEnvVariable(v)
		case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64, bool:
			result[fullKey] = v
		case []any:
			result[fullKey] = v
		case map[string]any:
			parsePropertiesMap(fullKey, v, result)
		default:
			log.Printf("Ignoring key '%s' with unsupported type.", fullKey)
		}
	}
}

// resolveEnvVariable replaces every ${ENV_NAME:default} occurrence in value.
// A set variable wins even when empty; otherwise the default (possibly empty) is used.
func resolveEnvVariable(value string) string {
	if !strings.Contains(value, "${") {
		return value
	}
	return envPattern.ReplaceAllStringFunc(value, func(match string) string {
		groups := envPattern.FindStringSubmatch(match)
		if envValue, exists := os.LookupEnv(groups[1]); exists {
			return envValue
		}
		return groups[2]
	})
}

func current() *viper.Viper {
	mu.RLock()
	defer mu.RUnlock()
	return properties
}

func IsSet(key string) bool {
	return current().IsSet(key)
}

func Get(key string) any {
	return current().Get(key)
}

func GetString(key string) string {
	return current().GetString(key)
}

func GetBool(key string) bool {
	return current().GetBool(key)
}

func GetDuration(key string) time.Duration {
	return current().GetDuration(key)
}

func GetInt(key string) int {
	return current().GetInt(key)
}

func GetStringSlice(key string) []string {
	return current().GetStringSlice(key)
}
