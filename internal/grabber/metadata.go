package grabber

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/semperland/events-grabber/internal/chain"
	"github.com/semperland/events-grabber/internal/logger"
	"github.com/semperland/events-grabber/internal/metrics"
	"github.com/semperland/events-grabber/internal/store"
)

// Placeholder documents written when a token's metadata cannot be resolved.
// Tokens never stay without a metadata record.
const (
	metadataUnknown = `{"name":"Unknown","description":"This token has no metadata uri","image":"","properties":{}}`
	metadataInvalid = `{"name":"Invalid","description":"The metadata of this token could not be fetched","image":"","properties":{}}`
)

// Metadata documents larger than this are treated as invalid.
const maxMetadataSize = 1 << 20

// Downloader resolves token metadata: a tokenURI chain call followed by an
// HTTP fetch of the JSON document. Chain call failures abort the cycle;
// every network or parse failure only degrades to a placeholder.
type Downloader struct {
	caller    chain.ViewCaller
	metaverse *chain.Contract
	client    *http.Client
	log       *logger.Logger
}

// NewDownloader creates a metadata downloader. timeout bounds each HTTP
// fetch.
func NewDownloader(caller chain.ViewCaller, metaverse *chain.Contract, timeout time.Duration, log *logger.Logger) *Downloader {
	return &Downloader{
		caller:    caller,
		metaverse: metaverse,
		client:    &http.Client{Timeout: timeout},
		log:       log.WithComponent("metadata"),
	}
}

// RefreshToken fetches, classifies and stores the metadata of the token,
// replacing any previous record.
func (d *Downloader) RefreshToken(ctx context.Context, q store.Querier, tokenID *big.Int) error {
	metrics.MetadataFetches.Inc()

	results, err := d.caller.CallView(ctx, d.metaverse, "tokenURI", tokenID)
	if err != nil {
		return fmt.Errorf("resolving metadata uri of token %s: %w", NormalizeTokenID(tokenID), err)
	}

	if len(results) != 1 {
		return fmt.Errorf("tokenURI returned %d values, want 1", len(results))
	}

	uri, ok := results[0].(string)
	if !ok {
		return fmt.Errorf("tokenURI returned %T, want string", results[0])
	}

	document, parsed := d.fetch(ctx, tokenID, uri)

	record := &store.TokenMetadata{
		TokenID:  NormalizeTokenID(tokenID),
		Group:    store.TokenGroupNFT,
		Metadata: document,
	}

	switch {
	case IsFungible(tokenID):
		record.Group = store.TokenGroupFT
		brand := BrandOfToken(tokenID).Hex()
		record.Brand = &brand
	case propertiesType(parsed) == "brand":
		brand := common.BigToAddress(tokenID).Hex()
		record.Brand = &brand
	}

	return store.UpsertTokenMetadata(q, record)
}

// fetch retrieves the metadata document at uri. It returns the stored JSON
// text plus its parsed form, degrading to a placeholder on every failure.
func (d *Downloader) fetch(ctx context.Context, tokenID *big.Int, uri string) (string, map[string]interface{}) {
	if uri == "" {
		return metadataUnknown, nil
	}

	parsedURL, err := url.Parse(uri)
	if err != nil || (parsedURL.Scheme != "http" && parsedURL.Scheme != "https") {
		return d.degrade(tokenID, uri, "scheme", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return d.degrade(tokenID, uri, "request", err)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return d.degrade(tokenID, uri, "network", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return d.degrade(tokenID, uri, "status", fmt.Errorf("status %d", resp.StatusCode))
	}

	contentType := resp.Header.Get("Content-Type")
	if !isJSONContentType(contentType) {
		return d.degrade(tokenID, uri, "content_type", fmt.Errorf("content type %q", contentType))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxMetadataSize+1))
	if err != nil {
		return d.degrade(tokenID, uri, "network", err)
	}

	if len(body) > maxMetadataSize {
		return d.degrade(tokenID, uri, "size", fmt.Errorf("document exceeds %d bytes", maxMetadataSize))
	}

	var parsed map[string]interface{}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return d.degrade(tokenID, uri, "parse", err)
	}

	return string(body), parsed
}

func (d *Downloader) degrade(tokenID *big.Int, uri, reason string, err error) (string, map[string]interface{}) {
	metrics.MetadataFetchFailures.WithLabelValues(reason).Inc()
	d.log.Warnw("token metadata degraded to placeholder",
		"token", NormalizeTokenID(tokenID), "uri", uri, "reason", reason, "error", err)

	return metadataInvalid, nil
}

// isJSONContentType accepts application/json, text/json and the structured
// syntax suffix variants such as application/ld+json.
func isJSONContentType(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}

	switch mediaType {
	case "application/json", "text/json":
		return true
	}

	return strings.HasSuffix(mediaType, "+json")
}

func propertiesType(document map[string]interface{}) string {
	properties, ok := document["properties"].(map[string]interface{})
	if !ok {
		return ""
	}

	typ, _ := properties["type"].(string)

	return typ
}
