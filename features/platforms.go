package features

import (
	"fmt"
	"strings"

	"prompt_page_studio/pageconfig"
)

// MaxTargetWordCount bounds a platform's target review length.
const MaxTargetWordCount = 1000

// PlatformOp is an edit applied to the ordered platform list.
type PlatformOp string

const (
	OpReplace  PlatformOp = "replace"
	OpAdd      PlatformOp = "add"
	OpUpdate   PlatformOp = "update"
	OpRemove   PlatformOp = "remove"
	OpMove     PlatformOp = "move"
	OpVerify   PlatformOp = "verify"
	OpUnverify PlatformOp = "unverify"
)

// PlatformsPatch edits the review platform list. Index addresses an existing
// entry for update, remove, move, verify and unverify; To is the destination of
// a move.
type PlatformsPatch struct {
	Op       PlatformOp            `json:"op"`
	Index    int                   `json:"index,omitempty"`
	To       int                   `json:"to,omitempty"`
	Platform *pageconfig.Platform  `json:"platform,omitempty"`
	All      []pageconfig.Platform `json:"all,omitempty"`
}

func (PlatformsPatch) Feature() Key { return KeyPlatforms }

// Platforms manages the ordered list of review destinations. It is always on.
type Platforms struct{}

func (Platforms) Key() Key { return KeyPlatforms }
func (Platforms) Group() Group { return "" }
func (Platforms) Enabled(cfg *pageconfig.Config) bool { return len(cfg.Platforms) > 0 }
func (Platforms) Enables(*pageconfig.Config, Patch) bool { return false }

func (Platforms) Apply(cfg *pageconfig.Config, p Patch, env Env) error {
	pp, ok := p.(PlatformsPatch)
	if !ok {
		return mismatch(KeyPlatforms, p)
	}
	list := cfg.Platforms
	inRange := func(i int) error {
		if i < 0 || i >= len(list) {
			return fmt.Errorf("%w: platform index %d out of range", ErrInvalidPatch, i)
		}
		return nil
	}

	switch pp.Op {
	case OpReplace:
		list = append([]pageconfig.Platform(nil), pp.All...)
	case OpAdd:
		if pp.Platform == nil {
			return fmt.Errorf("%w: add needs a platform", ErrInvalidPatch)
		}
		np := *pp.Platform
		if np.TargetWordCount == 0 {
			np.TargetWordCount = pageconfig.DefaultTargetWordCount
		}
		np.Verified, np.VerifiedAt = false, nil
		list = append(list, np)
	case OpUpdate:
		if err := inRange(pp.Index); err != nil {
			return err
		}
		if pp.Platform == nil {
			return fmt.Errorf("%w: update needs a platform", ErrInvalidPatch)
		}
		np := *pp.Platform
		// verification belongs to the verify op
		np.Verified, np.VerifiedAt = list[pp.Index].Verified, list[pp.Index].VerifiedAt
		if np.URL != list[pp.Index].URL {
			np.Verified, np.VerifiedAt = false, nil
		}
		list[pp.Index] = np
	case OpRemove:
		if err := inRange(pp.Index); err != nil {
			return err
		}
		list = append(list[:pp.Index:pp.Index], list[pp.Index+1:]...)
	case OpMove:
		if err := inRange(pp.Index); err != nil {
			return err
		}
		if err := inRange(pp.To); err != nil {
			return err
		}
		moved := list[pp.Index]
		rest := append(list[:pp.Index:pp.Index], list[pp.Index+1:]...)
		list = append(rest[:pp.To:pp.To], append([]pageconfig.Platform{moved}, rest[pp.To:]...)...)
	case OpVerify:
		if err := inRange(pp.Index); err != nil {
			return err
		}
		now := env.now().UTC()
		list[pp.Index].Verified = true
		list[pp.Index].VerifiedAt = &now
	case OpUnverify:
		if err := inRange(pp.Index); err != nil {
			return err
		}
		list[pp.Index].Verified = false
		list[pp.Index].VerifiedAt = nil
	default:
		return fmt.Errorf("%w: unknown platform op %q", ErrInvalidPatch, pp.Op)
	}
	cfg.Platforms = list
	return nil
}

func (Platforms) Validate(cfg *pageconfig.Config, _ Env) []Violation {
	var out []Violation
	seen := map[string]int{}
	for i, p := range cfg.Platforms {
		field := fmt.Sprintf("platforms[%d]", i)
		name := strings.TrimSpace(p.Name)
		if name == "" {
			out = append(out, Violation{Feature: KeyPlatforms, Field: field + ".name", Message: "platform name is required"})
		} else if j, dup := seen[strings.ToLower(p.DisplayName())]; dup {
			out = append(out, Violation{Feature: KeyPlatforms, Field: field + ".name", Message: fmt.Sprintf("%q is already listed at position %d", p.DisplayName(), j+1)})
		} else {
			seen[strings.ToLower(p.DisplayName())] = i
		}
		if !ValidHTTPURL(p.URL) {
			out = append(out, Violation{Feature: KeyPlatforms, Field: field + ".url", Message: "platform link must be a full http(s) URL"})
		}
		if p.TargetWordCount < 0 || p.TargetWordCount > MaxTargetWordCount {
			out = append(out, Violation{Feature: KeyPlatforms, Field: field + ".target_word_count", Message: fmt.Sprintf("word count must be between 0 and %d", MaxTargetWordCount)})
		}
	}
	return out
}
