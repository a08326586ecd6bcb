package main

import (
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sanjeevkumarraob/file-extractor-service/internal/config"
	"github.com/sanjeevkumarraob/file-extractor-service/internal/document"
	"github.com/sanjeevkumarraob/file-extractor-service/internal/document/extractor"
	"github.com/sanjeevkumarraob/file-extractor-service/internal/document/ocr"
)

// newExtractor builds the Extractor and its capabilities from configuration.
func newExtractor(cfg *config.Config, logger *zap.Logger) (*document.Extractor, error) {
	capCfg := extractor.Config{
		TikaURL:     cfg.Tika.URL,
		TikaTimeout: cfg.Tika.Timeout,
	}
	if key := cfg.Unidoc.LicenseKey; key != "" {
		if err := extractor.SetOfficeLicense(key); err != nil {
			return nil, eris.Wrap(err, "set unidoc license")
		}
		capCfg.OfficeLicensed = true
	}
	if cfg.OCR.Enabled {
		capCfg.OCR = ocr.NewProcessor(cfg.OCR.Languages, logger)
	}

	logger.Info("extractor configured",
		zap.Bool("tika", capCfg.TikaURL != ""),
		zap.Bool("ocr", cfg.OCR.Enabled),
		zap.Bool("unioffice", capCfg.OfficeLicensed),
		zap.String("sheet_encoding", cfg.Extract.SheetEncoding),
		zap.Int("concurrency", cfg.Extract.Concurrency),
	)

	return document.NewExtractor(
		extractor.NewCapabilities(capCfg, logger),
		extractOptions(cfg.Extract),
		logger,
	), nil
}

func extractOptions(c config.ExtractConfig) document.Options {
	return document.Options{
		FileBanner:    c.FileBanner,
		SheetEncoding: document.SheetEncoding(c.SheetEncoding),
		SniffContent:  c.SniffContent,
		Concurrency:   c.Concurrency,
	}
}
