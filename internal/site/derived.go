package site

import (
	"encoding/json"
	"fmt"
	"slices"
)

const (
	copyrightHolder = "Pabpereza"
	adSenseScript   = "https://pagead2.googlesyndication.com/pagead/js/adsbygoogle.js?client="
	adSenseMetaName = "google-adsense-account"
	jsonLDType      = "application/ld+json"
)

// Copyright returns the footer copyright line for year. It is evaluated at
// render time so long-running processes pick up the new year.
func Copyright(year int) string {
	return fmt.Sprintf("Copyright © %d %s. Built with Docusaurus.", year, copyrightHolder)
}

// StructuredData is the schema.org Organization payload embedded as JSON-LD.
// Field order matches the serialized key order.
type StructuredData struct {
	Context string `json:"@context"`
	Type    string `json:"@type"`
	Name    string `json:"name"`
	URL     string `json:"url"`
	Logo    string `json:"logo"`
}

// JSON serializes the payload. Output is stable for equal values.
func (s StructuredData) JSON() (string, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// StructuredData describes the site as an Organization rooted at SiteRoot.
func (c *Config) StructuredData() StructuredData {
	return StructuredData{
		Context: "https://schema.org/",
		Type:    "Organization",
		Name:    c.Organization.Name,
		URL:     c.Identity.SiteRoot(),
		Logo:    c.Identity.Absolute(c.Organization.LogoPath),
	}
}

// HeadTags returns a preconnect hint to the site origin, the declared head
// tags, then the JSON-LD script.
func (c *Config) HeadTags() ([]HeadTag, error) {
	payload, err := c.StructuredData().JSON()
	if err != nil {
		return nil, fmt.Errorf("serialize structured data: %w", err)
	}
	tags := make([]HeadTag, 0, len(c.Theme.HeadTags)+2)
	if origin := c.Identity.Origin(); origin != "" {
		tags = append(tags, HeadTag{
			TagName: "link",
			Attributes: []Attribute{
				{Name: "rel", Value: "preconnect"},
				{Name: "href", Value: origin},
			},
		})
	}
	tags = append(tags, c.Theme.HeadTags...)
	tags = append(tags, HeadTag{
		TagName:    "script",
		Attributes: []Attribute{{Name: "type", Value: jsonLDType}},
		InnerHTML:  payload,
	})
	return tags, nil
}

// Scripts returns the external scripts to inject. The AdSense loader is
// included when a client id is configured.
func (c *Config) Scripts() []Script {
	if c.Analytics.AdSenseClient == "" {
		return nil
	}
	return []Script{{
		Src:         adSenseScript + c.Analytics.AdSenseClient,
		Async:       true,
		CrossOrigin: "anonymous",
	}}
}

// MetadataTags returns the declared metadata followed by the AdSense account
// tag, derived from the same client id as the script.
func (c *Config) MetadataTags() []MetaTag {
	tags := slices.Clone(c.Theme.Metadata)
	if c.Analytics.AdSenseClient != "" {
		tags = append(tags, MetaTag{Name: adSenseMetaName, Content: c.Analytics.AdSenseClient})
	}
	return tags
}

// InternalDestinations lists navbar and footer destinations that are site
// routes rather than absolute URLs, in declaration order.
func (c *Config) InternalDestinations() []string {
	var out []string
	for _, item := range c.Theme.Navbar.Items {
		if d := item.Destination(); IsInternal(d) {
			out = append(out, d)
		}
	}
	for _, group := range c.Theme.Footer.Links {
		for _, item := range group.Items {
			if d := item.Destination(); IsInternal(d) {
				out = append(out, d)
			}
		}
	}
	return out
}
