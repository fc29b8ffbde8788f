// Package contracts embeds the HTTP contract served and enforced by the API server.
package contracts

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"
)

//go:embed portfolio.yaml
var portfolioYAML []byte

// PortfolioYAML returns the raw contract bytes.
func PortfolioYAML() []byte {
	return portfolioYAML
}

// LoadPortfolio parses and validates the embedded contract.
func LoadPortfolio() (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(portfolioYAML)
	if err != nil {
		return nil, fmt.Errorf("load portfolio contract: %w", err)
	}
	if err := doc.Validate(context.Background()); err != nil {
		return nil, fmt.Errorf("validate portfolio contract: %w", err)
	}
	return doc, nil
}
