package ingredient

import (
	"fmt"

	"github.com/joeshaw/envdecode"
)

type ParserConfig struct {
	VerboseErrors   bool `env:"INGREDIENT_VERBOSE_ERRORS,default=false"`
	StrictFractions bool `env:"INGREDIENT_STRICT_FRACTIONS,default=false"`
	Approximate     bool `env:"INGREDIENT_APPROXIMATE,default=false"`
}

type SourceConfig struct {
	RecipesPath string `env:"INGREDIENT_RECIPES_PATH,default=artifacts/recipes.json"`
	S3Bucket    string `env:"INGREDIENT_S3_BUCKET"`
	S3Key       string `env:"INGREDIENT_S3_KEY,default=recipes.json"`
}

type BatchConfig struct {
	AbortOnError bool   `env:"INGREDIENT_ABORT_ON_ERROR,default=false"`
	LogDir       string `env:"INGREDIENT_LOG_DIR,default=./logs"`
	LogLevel     string `env:"LOG_LEVEL,default=info"`
}

// Config groups everything the commands read from the environment.
type Config struct {
	Parser ParserConfig
	Source SourceConfig
	Batch  BatchConfig
}

// Options converts the config into parser options.
func (c ParserConfig) Options() []Option {
	var opts []Option
	if c.VerboseErrors {
		opts = append(opts, WithVerboseErrors())
	}
	if c.StrictFractions {
		opts = append(opts, WithStrictFractions())
	}
	if c.Approximate {
		opts = append(opts, WithApproximate())
	}
	return opts
}

// LoadConfig decodes Config from the environment. Every field has a default, so an
// empty environment is fine; a value that does not parse for its field is an error.
func LoadConfig() (Config, error) {
	var cfg Config
	for _, part := range []struct {
		name   string
		target any
	}{
		{"parser", &cfg.Parser},
		{"source", &cfg.Source},
		{"batch", &cfg.Batch},
	} {
		if err := decode(part.target); err != nil {
			return Config{}, fmt.Errorf("failed to decode %s config: %w", part.name, err)
		}
	}
	return cfg, nil
}

// decode runs envdecode in strict mode, otherwise a bool such as "yes" is dropped and
// the field keeps its zero value.
func decode(target any) error {
	return envdecode.StrictDecode(target)
}
