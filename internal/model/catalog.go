package model

// PujaTypes is the fixed catalog of bookable services.
var PujaTypes = []string{
	"Ganesh Puja",
	"Lakshmi Puja",
	"Saraswati Puja",
	"Durga Puja",
	"Hanuman Puja",
	"Shiv Puja",
	"Griha Pravesh",
	"Havan",
	"Satyanarayan Puja",
	"Wedding Ceremony",
	"Mundan Ceremony",
	"Thread Ceremony",
	"Other",
}

// TimeSlots are the hourly start times a requester may choose.
var TimeSlots = []string{
	"06:00 AM", "07:00 AM", "08:00 AM", "09:00 AM", "10:00 AM", "11:00 AM",
	"12:00 PM", "01:00 PM", "02:00 PM", "03:00 PM", "04:00 PM", "05:00 PM",
	"06:00 PM", "07:00 PM", "08:00 PM",
}

var (
	pujaTypeSet = toSet(PujaTypes)
	timeSlotSet = toSet(TimeSlots)
)

func IsPujaType(s string) bool { _, ok := pujaTypeSet[s]; return ok }
func IsTimeSlot(s string) bool { _, ok := timeSlotSet[s]; return ok }

func toSet(vals []string) map[string]struct{} {
	m := make(map[string]struct{}, len(vals))
	for _, v := range vals {
		m[v] = struct{}{}
	}
	return m
}
