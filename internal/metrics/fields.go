package metrics

// Attribute keys shared by all instruments.
const (
	AttrSource = "source"
	AttrMethod = "method"
	AttrPath   = "path"
	AttrStatus = "status"
	AttrEvent  = "event"
	AttrResult = "result"
)
