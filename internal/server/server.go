package server

// Server joins the HTTP servers of the individual areas of the API so that
// RegisterRoutes can mount all of them on one router.
type Server struct {
	QuoteServer
	ShipmentServer
	StatsServer
	ConnectionServer
}

func NewServer(
	quoteServer QuoteServer,
	shipmentServer ShipmentServer,
	statsServer StatsServer,
	connectionServer ConnectionServer,
) Server {
	return Server{
		QuoteServer:      quoteServer,
		ShipmentServer:   shipmentServer,
		StatsServer:      statsServer,
		ConnectionServer: connectionServer,
	}
}
