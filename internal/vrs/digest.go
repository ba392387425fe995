package vrs

import (
	"crypto/sha512"
	"encoding/base64"
	"encoding/json"
)

// Identifier prefixes for GA4GH computed identifiers.
const (
	alleleIDPrefix   = "ga4gh:VA."
	locationIDPrefix = "ga4gh:SL."
)

// SHA512t24u computes the GA4GH truncated digest: base64url of the
// first 24 bytes of SHA-512 over the input.
func SHA512t24u(data []byte) string {
	sum := sha512.Sum512(data)
	return base64.RawURLEncoding.EncodeToString(sum[:24])
}

// digestPayload builds the canonical serialization form used for
// computed identifiers. encoding/json sorts map keys, which gives the
// stable key order the digest requires.
func digestPayload(m map[string]any) []byte {
	b, err := json.Marshal(m)
	if err != nil {
		// Only primitive values reach this point.
		panic(err)
	}
	return b
}

// LocationDigest computes the content digest of a sequence location.
// The referenced sequence contributes through its RefGet accession only.
func LocationDigest(l *SequenceLocation) string {
	payload := map[string]any{
		"type":  TypeSequenceLocation,
		"start": l.Start,
		"end":   l.End,
	}
	if l.SequenceReference != nil {
		payload["sequenceReference"] = l.SequenceReference.RefgetAccession
	}
	return SHA512t24u(digestPayload(payload))
}

// AlleleDigest computes the content digest of an allele from its
// location digest and state.
func AlleleDigest(a *Allele) string {
	payload := map[string]any{
		"type":     TypeAllele,
		"location": LocationDigest(a.Location),
	}
	switch st := a.State.(type) {
	case *LiteralSequenceExpression:
		payload["state"] = map[string]any{
			"type":     TypeLiteralSequenceExpression,
			"sequence": st.Sequence,
		}
	case *ReferenceLengthExpression:
		payload["state"] = map[string]any{
			"type":                TypeReferenceLengthExpression,
			"length":              st.Length,
			"repeatSubunitLength": st.RepeatSubunit,
		}
	}
	return SHA512t24u(digestPayload(payload))
}

// Identify stamps the allele and its location with digest-based GA4GH
// identifiers, returning the same allele for chaining.
func Identify(a *Allele) *Allele {
	locDigest := LocationDigest(a.Location)
	a.Location.Digest = locDigest
	a.Location.ID = locationIDPrefix + locDigest
	digest := AlleleDigest(a)
	a.Digest = digest
	a.ID = alleleIDPrefix + digest
	return a
}
