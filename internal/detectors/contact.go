package detectors

import (
	"context"
	"math"
	"net"
	"regexp"
	"strings"

	"github.com/nyaruka/phonenumbers"
	"github.com/rs/zerolog"

	"github.com/daniel/resume-sentinel/internal/types"
)

var emailSyntaxRe = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// disposableDomains are throwaway email providers. A resume contact on one
// of these is a strong negative signal.
var disposableDomains = map[string]struct{}{
	"10minutemail.com": {}, "tempmail.org": {}, "guerrillamail.com": {},
	"mailinator.com": {}, "throwaway.email": {}, "temp-mail.org": {},
	"yopmail.com": {}, "maildrop.cc": {}, "getnada.com": {}, "sharklasers.com": {},
	"guerrillamailblock.com": {}, "pokemail.net": {}, "spam4.me": {},
	"bccto.me": {}, "chacuo.net": {}, "dispostable.com": {}, "mailnesia.com": {},
}

// rolePatterns mark shared mailboxes rather than personal addresses.
var rolePatterns = []string{
	"admin", "administrator", "info", "contact", "support",
	"sales", "marketing", "hr", "jobs", "noreply", "no-reply",
}

// Contact score weights and increments.
const (
	emailSyntaxCredit     = 0.3
	emailMXCredit         = 0.3
	emailNotDisposable    = 0.2
	emailNotRole          = 0.2
	phoneValidCredit      = 0.5
	phoneNotTollFree      = 0.3
	phoneRegionKnown      = 0.2
	geoCountryCredit      = 0.5
	geoRegionCredit       = 0.3
	geoNoTollFreeConflict = 0.2

	contactWeightEmail = 0.5
	contactWeightPhone = 0.3
	contactWeightGeo   = 0.2
)

// ContactVerifier validates the candidate's stated email, phone number and
// their consistency with the stated location. All checks are local except
// the DNS MX lookup.
type ContactVerifier struct {
	log           zerolog.Logger
	defaultRegion string

	// overridable for tests
	lookupMX func(ctx context.Context, domain string) ([]*net.MX, error)
}

// NewContactVerifier creates a verifier that parses phone numbers against
// the given default region.
func NewContactVerifier(log zerolog.Logger, defaultRegion string) *ContactVerifier {
	if defaultRegion == "" {
		defaultRegion = "US"
	}
	return &ContactVerifier{
		log:           log.With().Str("detector", "contact").Logger(),
		defaultRegion: defaultRegion,
		lookupMX:      net.DefaultResolver.LookupMX,
	}
}

// Verify runs all contact checks and returns the weighted result.
func (v *ContactVerifier) Verify(ctx context.Context, email, phone, statedLocation string) types.ContactVerificationResult {
	emailCheck := v.verifyEmail(ctx, email)

	var phoneCheck *types.PhoneCheck
	if phone != "" {
		phoneCheck = v.verifyPhone(phone)
	}

	var geoCheck *types.GeoCheck
	if phone != "" && statedLocation != "" {
		geoCheck = v.checkGeoConsistency(phone, statedLocation)
	}

	score := contactScore(emailCheck, phoneCheck, geoCheck)
	result := types.ContactVerificationResult{
		Email:     emailCheck,
		Phone:     phoneCheck,
		Geo:       geoCheck,
		Score:     score,
		Rationale: contactRationale(emailCheck, phoneCheck, geoCheck),
	}

	v.log.Info().Float64("composite", score.Composite).Msg("contact verification completed")
	return result
}

func (v *ContactVerifier) verifyEmail(ctx context.Context, email string) *types.EmailCheck {
	check := &types.EmailCheck{Input: email}
	if email == "" {
		check.Notes = []string{"no email provided"}
		return check
	}

	check.SyntaxValid = emailSyntaxRe.MatchString(email)
	if !check.SyntaxValid {
		check.Normalized = email
		return check
	}

	check.Normalized = strings.ToLower(strings.TrimSpace(email))
	at := strings.LastIndex(check.Normalized, "@")
	localPart, domain := check.Normalized[:at], check.Normalized[at+1:]
	check.RegistrableDomain = domain

	_, check.IsDisposable = disposableDomains[domain]
	for _, role := range rolePatterns {
		if strings.Contains(localPart, role) {
			check.IsRole = true
			break
		}
	}

	records, err := v.lookupMX(ctx, domain)
	if err != nil {
		check.Notes = append(check.Notes, "MX lookup failed")
	} else {
		check.MXRecordsFound = len(records) > 0
	}
	return check
}

func (v *ContactVerifier) verifyPhone(phone string) *types.PhoneCheck {
	check := &types.PhoneCheck{Input: phone}

	num, err := phonenumbers.Parse(phone, v.defaultRegion)
	if err != nil {
		check.Notes = []string{"phone parse failed"}
		return check
	}

	check.Valid = phonenumbers.IsValidNumber(num)
	check.E164 = phonenumbers.Format(num, phonenumbers.E164)
	check.CountryCode = phonenumbers.GetRegionCodeForNumber(num)
	if check.CountryCode == "" {
		check.CountryCode = v.defaultRegion
	}
	check.TollFree = phonenumbers.GetNumberType(num) == phonenumbers.TOLL_FREE

	if region, err := phonenumbers.GetGeocodingForNumber(num, "en"); err == nil {
		check.RegionHint = region
	}
	check.Notes = append(check.Notes, "libphonenumber parse/validate/geocode")
	return check
}

func (v *ContactVerifier) checkGeoConsistency(phone, statedLocation string) *types.GeoCheck {
	check := &types.GeoCheck{StatedLocation: statedLocation}

	num, err := phonenumbers.Parse(phone, v.defaultRegion)
	if err != nil {
		return check
	}

	check.PhoneCountry = phonenumbers.GetRegionCodeForNumber(num)
	if region, err := phonenumbers.GetGeocodingForNumber(num, "en"); err == nil {
		check.PhoneRegion = region
	}
	tollFree := phonenumbers.GetNumberType(num) == phonenumbers.TOLL_FREE

	statedLower := strings.ToLower(statedLocation)
	for _, country := range []string{strings.ToLower(check.PhoneCountry), "usa", "united states"} {
		if country != "" && strings.Contains(statedLower, country) {
			check.PhoneCountryMatch = true
			break
		}
	}
	for _, word := range strings.Fields(strings.ToLower(check.PhoneRegion)) {
		if strings.Contains(statedLower, word) {
			check.PhoneRegionMatch = true
			break
		}
	}
	// Toll-free numbers carry no geography; claiming one as local is a
	// conflict.
	for _, term := range []string{"local", "area", "city"} {
		if tollFree && strings.Contains(statedLower, term) {
			check.TollFreeConflict = true
			break
		}
	}
	return check
}

func contactScore(email *types.EmailCheck, phone *types.PhoneCheck, geo *types.GeoCheck) types.ContactScore {
	emailScore := 0.0
	if email.SyntaxValid {
		emailScore += emailSyntaxCredit
	}
	if email.MXRecordsFound {
		emailScore += emailMXCredit
	}
	if !email.IsDisposable {
		emailScore += emailNotDisposable
	}
	if !email.IsRole {
		emailScore += emailNotRole
	}

	phoneScore := 0.0
	if phone != nil && phone.Valid {
		phoneScore += phoneValidCredit
		if !phone.TollFree {
			phoneScore += phoneNotTollFree
		}
		if phone.RegionHint != "" {
			phoneScore += phoneRegionKnown
		}
	}

	geoScore := 0.0
	if geo != nil {
		if geo.PhoneCountryMatch {
			geoScore += geoCountryCredit
		}
		if geo.PhoneRegionMatch {
			geoScore += geoRegionCredit
		}
		if !geo.TollFreeConflict {
			geoScore += geoNoTollFreeConflict
		}
	}

	composite := emailScore*contactWeightEmail + phoneScore*contactWeightPhone + geoScore*contactWeightGeo
	return types.ContactScore{
		Email:     round2(emailScore),
		Phone:     round2(phoneScore),
		Geo:       round2(geoScore),
		Composite: round2(composite),
	}
}

func contactRationale(email *types.EmailCheck, phone *types.PhoneCheck, geo *types.GeoCheck) []string {
	var rationale []string
	if email.SyntaxValid {
		rationale = append(rationale, "Email syntax/MX and disposable checks executed.")
	} else {
		rationale = append(rationale, "Email syntax validation failed.")
	}
	if phone != nil {
		if phone.Valid {
			rationale = append(rationale, "Phone parsed via libphonenumber; coarse region/toll-free derived.")
		} else {
			rationale = append(rationale, "Phone validation failed.")
		}
	}
	if geo != nil {
		rationale = append(rationale, "Geo consistency evaluated using libphonenumber geocoder and rules.")
	}
	return rationale
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
