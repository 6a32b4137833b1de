package features

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// DecodePatch builds the typed patch for key from a JSON body. Unknown fields
// are rejected.
func DecodePatch(key Key, body []byte) (Patch, error) {
	var target Patch
	switch key {
	case KeyNote:
		target = &NotePatch{}
	case KeySentiment:
		target = &SentimentPatch{}
	case KeyFallingAnimation:
		target = &FallingPatch{}
	case KeyAIAssist:
		target = &AIAssistPatch{}
	case KeyOffer:
		target = &OfferPatch{}
	case KeyPlatforms:
		target = &PlatformsPatch{}
	case KeyKickstarters:
		target = &KickstartersPatch{}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFeature, key)
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(target); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPatch, err)
	}
	switch p := target.(type) {
	case *NotePatch:
		return *p, nil
	case *SentimentPatch:
		return *p, nil
	case *FallingPatch:
		return *p, nil
	case *AIAssistPatch:
		return *p, nil
	case *OfferPatch:
		return *p, nil
	case *PlatformsPatch:
		return *p, nil
	case *KickstartersPatch:
		return *p, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFeature, key)
}
