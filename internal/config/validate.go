package config

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// Package-level validator used for tag-expressible checks. Custom semantic
// checks live next to the passes below.
var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
}

// reservedPublicDir is the output folder name reserved for static assets;
// distDir may not collide with it.
const reservedPublicDir = "public"

const (
	maxImageDomains  = 50
	maxImageSizes    = 25
	minImageSize     = 1
	maxImageSizeEdge = 10000
)

// validatorPass is one link of the chain. Passes receive the engine's own
// merged tree; the mutating passes write their fixups into it directly.
type validatorPass func(tree map[string]any, log zerolog.Logger) error

// validateMerged runs the ordered validator chain over the merged tree.
// The first failing pass wins; the i18n domain pass collects its offenders
// set-wide before failing, as the exclusivity check is inherently set-wide.
func validateMerged(tree map[string]any, log zerolog.Logger) error {
	passes := []validatorPass{
		checkDistDir,
		checkPageExtensions,
		checkAssetPrefix,
		checkBasePath,
		propagateBasePath,
		checkImageDomains,
		checkImageSizes,
		normalizeImagePath,
		checkI18N,
		reorderLocales,
	}
	for _, pass := range passes {
		if err := pass(tree, log); err != nil {
			return err
		}
	}
	return nil
}

func checkDistDir(tree map[string]any, _ zerolog.Logger) error {
	v := tree["distDir"]
	s, ok := v.(string)
	if !ok {
		return fmt.Errorf("%w: distDir must be a string, got %T", ErrTypeMismatch, v)
	}
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: distDir must not be empty", ErrStructuralViolation)
	}
	if s == reservedPublicDir {
		return fmt.Errorf("%w: distDir can not be %q, the name is reserved for the static assets folder", ErrReservedValue, reservedPublicDir)
	}
	return nil
}

func checkPageExtensions(tree map[string]any, _ zerolog.Logger) error {
	v := tree["pageExtensions"]
	seq, ok := asSequence(v)
	if !ok {
		return fmt.Errorf("%w: pageExtensions must be a list of strings, got %T", ErrTypeMismatch, v)
	}
	if len(seq) == 0 {
		return fmt.Errorf("%w: pageExtensions must not be empty", ErrStructuralViolation)
	}
	for i, e := range seq {
		if _, ok := e.(string); !ok {
			return fmt.Errorf("%w: pageExtensions[%d] must be a string, got %v (%T)", ErrTypeMismatch, i, e, e)
		}
	}
	return nil
}

func checkAssetPrefix(tree map[string]any, _ zerolog.Logger) error {
	if v, ok := tree["assetPrefix"]; ok {
		if _, isString := v.(string); !isString {
			return fmt.Errorf("%w: assetPrefix must be a string, got %T", ErrTypeMismatch, v)
		}
	}
	return nil
}

func checkBasePath(tree map[string]any, _ zerolog.Logger) error {
	v := tree["basePath"]
	s, ok := v.(string)
	if !ok {
		return fmt.Errorf("%w: basePath must be a string, got %T", ErrTypeMismatch, v)
	}
	switch {
	case s == "":
		return nil
	case s == "/":
		return fmt.Errorf(`%w: basePath = "/" is not supported, use "" instead`, ErrStructuralViolation)
	case !strings.HasPrefix(s, "/"):
		return fmt.Errorf("%w: basePath %q must start with a /", ErrStructuralViolation, s)
	case strings.HasSuffix(s, "/"):
		return fmt.Errorf("%w: basePath %q must not end with a /", ErrStructuralViolation, s)
	}
	return nil
}

// propagateBasePath seeds assetPrefix and amp.canonicalBase from a non-empty
// basePath when the user left them empty. Mutating pass.
func propagateBasePath(tree map[string]any, _ zerolog.Logger) error {
	base, _ := tree["basePath"].(string)
	if base == "" {
		return nil
	}
	if prefix, ok := tree["assetPrefix"].(string); ok && prefix == "" {
		tree["assetPrefix"] = base
	}
	if amp, ok := asRecord(tree["amp"]); ok {
		if cb, ok := amp["canonicalBase"].(string); ok && cb == "" {
			amp["canonicalBase"] = base
			tree["amp"] = amp
		}
	}
	return nil
}

func imagesRecord(tree map[string]any) (map[string]any, error) {
	v, ok := tree["images"]
	if !ok || v == nil {
		return nil, nil
	}
	rec, ok := asRecord(v)
	if !ok {
		return nil, fmt.Errorf("%w: images must be an object, got %T", ErrTypeMismatch, v)
	}
	return rec, nil
}

func checkImageDomains(tree map[string]any, _ zerolog.Logger) error {
	images, err := imagesRecord(tree)
	if images == nil || err != nil {
		return err
	}
	v, ok := images["domains"]
	if !ok || v == nil {
		return nil
	}
	seq, ok := asSequence(v)
	if !ok {
		return fmt.Errorf("%w: images.domains must be a list of strings, got %T", ErrTypeMismatch, v)
	}
	if len(seq) > maxImageDomains {
		return fmt.Errorf("%w: images.domains exceeds the length of %d, received length (%d)", ErrRangeViolation, maxImageDomains, len(seq))
	}
	var invalid []any
	for _, d := range seq {
		if _, ok := d.(string); !ok {
			invalid = append(invalid, d)
		}
	}
	if len(invalid) > 0 {
		return fmt.Errorf("%w: images.domains must contain only strings, invalid values: %v", ErrTypeMismatch, invalid)
	}
	return nil
}

func checkImageSizes(tree map[string]any, _ zerolog.Logger) error {
	images, err := imagesRecord(tree)
	if images == nil || err != nil {
		return err
	}
	for _, key := range []string{"deviceSizes", "imageSizes"} {
		v, ok := images[key]
		if !ok || v == nil {
			continue
		}
		seq, ok := asSequence(v)
		if !ok {
			return fmt.Errorf("%w: images.%s must be a list of numbers, got %T", ErrTypeMismatch, key, v)
		}
		if len(seq) > maxImageSizes {
			return fmt.Errorf("%w: images.%s exceeds the length of %d, received length (%d)", ErrRangeViolation, key, maxImageSizes, len(seq))
		}
		var invalid []any
		for _, e := range seq {
			n, ok := asNumber(e)
			if !ok || n < minImageSize || n > maxImageSizeEdge {
				invalid = append(invalid, e)
			}
		}
		if len(invalid) > 0 {
			return fmt.Errorf("%w: images.%s must contain numbers between %d and %d, invalid values: %v",
				ErrRangeViolation, key, minImageSize, maxImageSizeEdge, invalid)
		}
	}
	return nil
}

// normalizeImagePath appends a trailing slash to images.path when missing.
// Mutating pass.
func normalizeImagePath(tree map[string]any, _ zerolog.Logger) error {
	images, err := imagesRecord(tree)
	if images == nil || err != nil {
		return err
	}
	if p, ok := images["path"].(string); ok && p != "" && !strings.HasSuffix(p, "/") {
		images["path"] = p + "/"
		tree["images"] = images
	}
	return nil
}

// i18nValue returns the experimental.i18n value when the feature subtree is
// present. A false flag means disabled and is reported as absent.
func i18nValue(tree map[string]any) (any, bool) {
	exp, ok := asRecord(tree[experimentalKey])
	if !ok {
		return nil, false
	}
	v, ok := exp["i18n"]
	if !ok || v == nil {
		return nil, false
	}
	if flag, isBool := v.(bool); isBool && !flag {
		return nil, false
	}
	return v, true
}

func decodeI18N(rec map[string]any) (*I18NConfig, error) {
	raw, err := yaml.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("%w: experimental.i18n is malformed: %v", ErrStructuralViolation, err)
	}
	var out I18NConfig
	if err := yaml.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("%w: experimental.i18n is malformed: %v", ErrStructuralViolation, err)
	}
	return &out, nil
}

func checkI18N(tree map[string]any, log zerolog.Logger) error {
	raw, ok := i18nValue(tree)
	if !ok {
		return nil
	}
	rec, ok := asRecord(raw)
	if !ok {
		return fmt.Errorf("%w: experimental.i18n must be an object, got %T", ErrStructuralViolation, raw)
	}

	i18n, err := decodeI18N(rec)
	if err != nil {
		return err
	}
	if err := validate.Struct(i18n); err != nil {
		return formatI18NError(err)
	}
	if !slices.Contains(i18n.Locales, i18n.DefaultLocale) {
		return fmt.Errorf("%w: experimental.i18n.defaultLocale %q must be included in locales %v",
			ErrStructuralViolation, i18n.DefaultLocale, i18n.Locales)
	}
	if ld, ok := rec["localeDetection"]; ok && ld != nil {
		if _, isBool := ld.(bool); !isBool {
			return fmt.Errorf("%w: experimental.i18n.localeDetection must be a boolean, got %T", ErrStructuralViolation, ld)
		}
	}

	// Domain bindings: required fields plus cross-record locale exclusivity.
	// Offenders are collected set-wide and reported together.
	claimed := make(map[string]string, len(i18n.Domains)) // locale -> owning domain
	var invalid []DomainBinding
	for _, d := range i18n.Domains {
		valid := d.Domain != "" && d.DefaultLocale != ""
		for _, loc := range d.Locales {
			if owner, taken := claimed[loc]; taken {
				log.Warn().
					Str("locale", loc).
					Str("domain", d.Domain).
					Str("claimedBy", owner).
					Msg("locale is assigned to more than one i18n domain")
				valid = false
			}
		}
		if !valid {
			invalid = append(invalid, d)
			continue
		}
		for _, loc := range d.Locales {
			claimed[loc] = d.Domain
		}
	}
	if len(invalid) > 0 {
		text, err := json.Marshal(invalid)
		if err != nil {
			text = []byte(fmt.Sprintf("%v", invalid))
		}
		return fmt.Errorf("%w: invalid experimental.i18n.domains entries: %s", ErrStructuralViolation, text)
	}

	return nil
}

func formatI18NError(err error) error {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return err
	}
	switch verrs[0].StructField() {
	case "Locales":
		return fmt.Errorf("%w: experimental.i18n.locales must be a non-empty list of locale strings", ErrStructuralViolation)
	case "DefaultLocale":
		return fmt.Errorf("%w: experimental.i18n.defaultLocale must be a non-empty string", ErrStructuralViolation)
	}
	return fmt.Errorf("%w: experimental.i18n.%s is invalid", ErrStructuralViolation, verrs[0].Field())
}

// reorderLocales rewrites experimental.i18n.locales so the default locale
// comes first, keeping the remaining locales in their original relative
// order with duplicates of the default removed. Mutating pass; runs after
// checkI18N, so the subtree shape is already known to be valid.
func reorderLocales(tree map[string]any, _ zerolog.Logger) error {
	raw, ok := i18nValue(tree)
	if !ok {
		return nil
	}
	rec, ok := asRecord(raw)
	if !ok {
		return nil
	}
	def, _ := rec["defaultLocale"].(string)
	seq, ok := asSequence(rec["locales"])
	if !ok || def == "" {
		return nil
	}

	ordered := make([]any, 0, len(seq))
	ordered = append(ordered, def)
	for _, l := range seq {
		if s, isString := l.(string); isString && s == def {
			continue
		}
		ordered = append(ordered, l)
	}
	rec["locales"] = ordered

	if exp, ok := asRecord(tree[experimentalKey]); ok {
		exp["i18n"] = rec
		tree[experimentalKey] = exp
	}
	return nil
}
