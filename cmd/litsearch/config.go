// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"time"

	"github.com/spf13/viper"

	"github.com/pdiddy/litsearch/pkg/types"
)

// Configuration readers. Each stage pulls its section from viper, with
// secrets from .secrets/ filling in API keys the config file leaves blank.

func storeConfig() types.StoreConfig {
	return types.StoreConfig{
		Path: viper.GetString("store.path"),
	}
}

func embeddingConfig() types.EmbeddingConfig {
	return types.EmbeddingConfig{
		BaseURL: viper.GetString("embedding.base_url"),
		APIKey:  secretDefault("openai-api-key", viper.GetString("embedding.api_key")),
		Model:   viper.GetString("embedding.model"),
		Dim:     viper.GetInt("embedding.dim"),
	}
}

func indexConfig() types.IndexConfig {
	cfg := types.IndexConfig{
		Dir:       viper.GetString("index.dir"),
		BatchSize: viper.GetInt("index.batch_size"),
	}
	if cfg.Dir == "" {
		cfg.Dir = "index"
	}
	return cfg
}

func searchConfig() types.SearchConfig {
	cfg := types.SearchConfig{
		MaxResults: viper.GetInt("search.max_results"),
		CandidateK: viper.GetInt("search.candidate_k"),
	}
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = 10
	}
	return cfg
}

func scopusConfig() types.ScopusConfig {
	cfg := types.ScopusConfig{
		APIKey:            secretDefault("scopus-api-key", viper.GetString("scopus.api_key")),
		InstToken:         secretDefault("scopus-inst-token", viper.GetString("scopus.inst_token")),
		Timeout:           viper.GetDuration("scopus.timeout"),
		RequestsPerSecond: viper.GetFloat64("scopus.requests_per_second"),
		PageSize:          viper.GetInt("scopus.page_size"),
		ArticlesPerYear:   viper.GetInt("scopus.articles_per_year"),
		OutputFile:        viper.GetString("scopus.output_file"),
	}
	for _, y := range viper.GetIntSlice("scopus.years") {
		cfg.Years = append(cfg.Years, y)
	}
	if len(cfg.Years) == 0 {
		for y := 2018; y <= 2024; y++ {
			cfg.Years = append(cfg.Years, y)
		}
	}
	if cfg.ArticlesPerYear <= 0 {
		cfg.ArticlesPerYear = 4500 / len(cfg.Years)
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.OutputFile == "" {
		cfg.OutputFile = "scopus_raw_data.json"
	}
	return cfg
}
