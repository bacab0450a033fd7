package directline

import (
	"encoding/json"
	"fmt"
	"net/url"
	"path"
	"strings"

	"botique/internal/domain"
)

// MapAttachment converts one internal attachment into its external form, or
// nil when the attachment is not representable. Templates expand to one
// attachment per card, everything else to exactly one.
func (a *Adapter) MapAttachment(att domain.Attachment) []Attachment {
	switch att.Type {
	case domain.AttachmentImage, domain.AttachmentAudio, domain.AttachmentVideo:
		if att.Payload.URL == "" {
			return nil
		}
		return []Attachment{mapMedia(att)}
	case domain.AttachmentLocation:
		coords := att.Payload.Coordinates
		if coords == nil {
			return nil
		}
		return []Attachment{{
			ContentType: LocationContentType,
			Content:     GeoCoordinates{Latitude: coords.Lat, Longitude: coords.Long},
		}}
	case domain.AttachmentTemplate:
		return a.MapTemplate(att)
	default:
		// Generic file handling covers "file" and any unrecognized type
		// that still points at content.
		if att.Payload.URL == "" {
			return nil
		}
		return []Attachment{{
			ContentType: FileContentType,
			ContentURL:  att.Payload.URL,
			Name:        displayName(att.Payload.URL),
		}}
	}
}

// mapMedia derives a {type}/{extension} content type from the URL's path
// extension, e.g. image + .../cat.png -> image/png.
func mapMedia(att domain.Attachment) Attachment {
	contentType := string(att.Type)
	if ext := urlExtension(att.Payload.URL); ext != "" {
		contentType = fmt.Sprintf("%s/%s", att.Type, ext)
	}
	return Attachment{
		ContentType: contentType,
		ContentURL:  att.Payload.URL,
		Name:        displayName(att.Payload.URL),
	}
}

// MapInboundAttachment converts one external attachment into the internal
// shape. Location content carries coordinates; every other content type is
// pattern-matched against the media families, defaulting to a plain file.
// The external display name is not preserved: the internal model has no
// name field.
func (a *Adapter) MapInboundAttachment(att Attachment) domain.Attachment {
	lower := strings.ToLower(att.ContentType)

	if strings.Contains(lower, "location") {
		coords := coordinatesFromContent(att.Content)
		return domain.Attachment{
			Type:    domain.AttachmentLocation,
			Payload: domain.AttachmentPayload{Coordinates: coords},
		}
	}

	attType := domain.AttachmentFile
	for _, media := range []domain.AttachmentType{domain.AttachmentImage, domain.AttachmentAudio, domain.AttachmentVideo} {
		if strings.Contains(lower, string(media)) {
			attType = media
			break
		}
	}
	return domain.Attachment{
		Type:    attType,
		Payload: domain.AttachmentPayload{URL: att.ContentURL},
	}
}

// coordinatesFromContent extracts latitude/longitude from an attachment
// content value, which arrives either as a decoded JSON map or as a typed
// GeoCoordinates produced by this package.
func coordinatesFromContent(content any) *domain.Coordinates {
	switch c := content.(type) {
	case GeoCoordinates:
		return &domain.Coordinates{Lat: c.Latitude, Long: c.Longitude}
	case *GeoCoordinates:
		if c == nil {
			return nil
		}
		return &domain.Coordinates{Lat: c.Latitude, Long: c.Longitude}
	default:
		data, err := json.Marshal(content)
		if err != nil {
			return nil
		}
		var geo GeoCoordinates
		if err := json.Unmarshal(data, &geo); err != nil {
			return nil
		}
		return &domain.Coordinates{Lat: geo.Latitude, Long: geo.Longitude}
	}
}

// urlExtension returns the lowercase path extension of a URL without the
// leading dot, or "" when the path has none.
func urlExtension(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	ext := path.Ext(u.Path)
	if ext == "" {
		return ""
	}
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// displayName derives a human-readable file name from the last path segment
// of a URL, undoing percent-encoding.
func displayName(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Path == "" || u.Path == "/" {
		return ""
	}
	base := path.Base(u.Path)
	if base == "." || base == "/" {
		return ""
	}
	if decoded, err := url.PathUnescape(base); err == nil {
		return decoded
	}
	return base
}
