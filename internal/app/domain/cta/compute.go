package cta

import (
	"fmt"

	"github.com/tourato/tourato-api/internal/app/models"
)

// ComputeButtons derives the always-available buttons for a pin at read
// time. Curated buttons from the store come on top of these: a website
// button when the pin carries a link, a booking button for hotels, and a
// directions button pointing Google Maps at the pin's coordinates.
func ComputeButtons(pin *models.Pin) []models.CTAButton {
	var buttons []models.CTAButton

	if pin.Link != "" {
		text := "Visit Website"
		if pin.Category == models.CategoryHotel {
			text = "Book Now"
		}
		buttons = append(buttons, models.CTAButton{
			Text:    text,
			URL:     pin.Link,
			BtnSize: "M",
		})
	}

	buttons = append(buttons, models.CTAButton{
		Text: "Get Directions",
		URL: fmt.Sprintf("https://www.google.com/maps/dir/?api=1&destination=%f,%f",
			pin.Latitude, pin.Longitude),
		BtnSize: "M",
	})

	return buttons
}
