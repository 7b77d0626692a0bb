package appointments

import (
	"fmt"
	"strings"

	"github.com/edsonnoyola12/sara-crm/internal/location"
)

// confirmationMessage is the WhatsApp notice sent to the lead after a
// booking is created.
func confirmationMessage(a *Appointment) string {
	var b strings.Builder
	b.WriteString("✅ ¡Cita agendada!\n\n")
	fmt.Fprintf(&b, "🏠 Propiedad: %s\n", a.PropertyName)
	fmt.Fprintf(&b, "📅 Fecha: %s\n", a.ScheduledAt.Format("02/01/2006 15:04"))
	fmt.Fprintf(&b, "⏱ Duración: %d min", a.DurationMinutes)
	if a.AgentName != "" {
		fmt.Fprintf(&b, "\n👤 Te atiende: %s", a.AgentName)
	}
	if link, ok := location.Resolve(a.PropertyName); ok {
		b.WriteString("\n📍 Ubicación: " + link)
	}
	return b.String()
}

// cancellationMessage is the WhatsApp notice sent to the lead when the
// booking is cancelled.
func cancellationMessage(a *Appointment) string {
	return fmt.Sprintf(
		"❌ Tu cita para %s del %s fue cancelada. Escríbenos y con gusto la reagendamos.",
		a.PropertyName, a.ScheduledAt.Format("02/01/2006 15:04"),
	)
}
