package sender

import (
	"reflect"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable overriding a config key,
// e.g. SNOWPLOW_COLLECTOR_URL.
const EnvPrefix = "snowplow"

// LoadViperDefaults sets the default value of every optional config key.
func LoadViperDefaults(v *viper.Viper) {
	v.SetDefault("app_id", "")
	v.SetDefault("namespace", "default")
	v.SetDefault("platform", "srv")
	v.SetDefault("emitters", []string{"http"})
	v.SetDefault("timeout", 5*time.Second)
	v.SetDefault("insecure_skip_verify", false)
	v.SetDefault("require_success_status", false)
	v.SetDefault("verbose", false)
}

// BindViperEnv binds every mapstructure key of cfg to its environment
// variable, so Unmarshal sees env overrides even for keys absent from the
// config file.
func BindViperEnv(v *viper.Viper, cfg interface{}) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	t := reflect.TypeOf(cfg)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	for i := 0; i < t.NumField(); i++ {
		key := t.Field(i).Tag.Get("mapstructure")
		if key == "" {
			continue
		}
		_ = v.BindEnv(key)
	}
}
