// Package config holds converter settings loaded from yaml.
package config

import (
	"os"

	"github.com/pkg/errors"
	"golang.org/x/text/encoding"
	"gopkg.in/yaml.v3"

	"github.com/mogaika/smd2fbx/smd"
)

type Config struct {
	Input     InputConfig     `yaml:"input"`
	Export    ExportConfig    `yaml:"export"`
	SceneInfo SceneInfoConfig `yaml:"scene_info"`
	Server    ServerConfig    `yaml:"server"`
	Logging   LoggingConfig   `yaml:"logging"`
}

type InputConfig struct {
	// charmap name, see ListEncodings. Empty reads input as utf-8.
	Encoding string `yaml:"encoding"`
	// extension renames applied to texture names
	TextureRenames map[string]string `yaml:"texture_renames"`
}

type ExportConfig struct {
	Format  string `yaml:"format"`
	Normals string `yaml:"normals"`
	Dump    bool   `yaml:"dump"`
}

type SceneInfoConfig struct {
	Subject  string `yaml:"subject"`
	Author   string `yaml:"author"`
	Revision string `yaml:"revision"`
	Comment  string `yaml:"comment"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
	// upload limit in bytes
	MaxInputSize int64 `yaml:"max_input_size"`
}

type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

func Default() *Config {
	renames := make(map[string]string, len(smd.DefaultTextureRenames))
	for from, to := range smd.DefaultTextureRenames {
		renames[from] = to
	}
	info := smd.DefaultSceneInfo()

	return &Config{
		Input: InputConfig{
			TextureRenames: renames,
		},
		Export: ExportConfig{
			Format:  string(smd.FormatFBX),
			Normals: string(smd.NormalsCorner),
		},
		SceneInfo: SceneInfoConfig{
			Subject:  info.Subject,
			Author:   info.Author,
			Revision: info.Revision,
			Comment:  info.Comment,
		},
		Server: ServerConfig{
			Addr:         ":8000",
			MaxInputSize: 64 << 20,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load returns defaults overridden by the yaml file at path, if any.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	if err := loadFromFile(cfg, path); err != nil {
		return nil, errors.Wrapf(err, "Failed to load config %q", path)
	}
	return cfg, nil
}

func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

func (cfg *Config) Save(path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.Wrapf(err, "Failed to marshal yaml")
	}
	return errors.Wrapf(os.WriteFile(path, data, 0644), "Failed to write config %q", path)
}

func (cfg *Config) ParseOptions() (smd.ParseOptions, error) {
	opts := smd.ParseOptions{
		TextureRenames: cfg.Input.TextureRenames,
	}
	cm, err := FindEncoding(cfg.Input.Encoding)
	if err != nil {
		return opts, err
	}
	if cm != nil {
		opts.Encoding = encoding.Encoding(cm)
	}
	return opts, nil
}

func (cfg *Config) ExportOptions() (*smd.ExportOptions, error) {
	format, err := smd.ParseFormat(cfg.Export.Format)
	if err != nil {
		return nil, err
	}
	normals, err := smd.ParseNormalSource(cfg.Export.Normals)
	if err != nil {
		return nil, err
	}

	info := smd.DefaultSceneInfo()
	info.Subject = cfg.SceneInfo.Subject
	info.Author = cfg.SceneInfo.Author
	info.Revision = cfg.SceneInfo.Revision
	info.Comment = cfg.SceneInfo.Comment

	return &smd.ExportOptions{
		Format:    format,
		Normals:   normals,
		SceneInfo: info,
		Dump:      cfg.Export.Dump,
	}, nil
}
