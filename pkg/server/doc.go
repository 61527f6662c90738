// Package server is the walletgraph HTTP server.
//
// It serves two APIs from one chi router:
//
//   - the explorer proxy, GET /api/wallet/{address}, which the graph engine
//     consumes as its page source
//   - the session API under /api/sessions, which runs explorer sessions
//     server-side for browser clients
//
// Session routes:
//
//	POST   /api/sessions                               create, returns {"id": ...}
//	DELETE /api/sessions/{id}
//	POST   /api/sessions/{id}/seed                     {"address": ...}
//	POST   /api/sessions/{id}/clear
//	POST   /api/sessions/{id}/expand/{address}
//	POST   /api/sessions/{id}/load-more/{address}
//	POST   /api/sessions/{id}/relayout
//	PUT    /api/sessions/{id}/nodes/{nodeID}/position  {"x": ..., "y": ...}
//	PUT    /api/sessions/{id}/selection                {"id": ...}
//	GET    /api/sessions/{id}/view
//	GET    /api/sessions/{id}/details/{address}
//	GET    /api/sessions/{id}/log
//	GET    /api/sessions/{id}/log/stream               server-sent events
//
// Errors are JSON bodies {"error": message, "code": CODE}. Codes map to
// statuses: invalid input 400, unknown session 404, no more pages 409,
// provider and network failures 502, anything else 500.
package server
