// Package poi is the HTTP client for the external POI search service.
//
// A lookup posts {"data":{"poiId":"<id>"}} to <base_url>getPoiDetailByPoiId
// and expects a 200 response shaped as
//
//	{"rtnCode": "...", "traceId": "...", "body": {"data": { ...PoiDetail... }}}
//
// Anything else (transport failure, non-200 status, malformed body) is
// reported as a *navi.PoiResolutionError. Only transport failures are
// retried.
package poi
