package navi

import "strconv"

// ToPoiInfo converts a POI search record into engine form.
//
// poiId, longitude and latitude are required. roadId, modelId and
// addressFloor may be empty and then read as 0. Any value that is present
// but not a valid decimal number fails the conversion.
func (d *PoiDetail) ToPoiInfo() (PoiInfo, error) {
	var (
		info PoiInfo
		err  error
	)

	if info.PoiID, err = parseUint(d.PoiID, "poiId", true); err != nil {
		return PoiInfo{}, err
	}
	if info.RoadID, err = parseUint(d.RoadID, "roadId", false); err != nil {
		return PoiInfo{}, err
	}
	if info.ModelID, err = parseUint(d.ModelID, "modelId", false); err != nil {
		return PoiInfo{}, err
	}
	if info.Entry.Longitude, err = parseFloat(d.Longitude, "longitude"); err != nil {
		return PoiInfo{}, err
	}
	if info.Entry.Latitude, err = parseFloat(d.Latitude, "latitude"); err != nil {
		return PoiInfo{}, err
	}

	if d.AddressFloor != "" {
		floor, err := strconv.ParseInt(d.AddressFloor, 10, 32)
		if err != nil {
			return PoiInfo{}, &TranslationError{Reason: "invalid numeric string", Field: "addressFloor", Err: err}
		}
		info.Entry.Floor = int32(floor)
	}

	info.PoiName = d.PoiName
	info.Entry.ModelID = uint32(info.ModelID)
	return info, nil
}

func parseUint(s, field string, required bool) (uint64, error) {
	if s == "" {
		if required {
			return 0, &TranslationError{Reason: "missing required field", Field: field}
		}
		return 0, nil
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, &TranslationError{Reason: "invalid numeric string", Field: field, Err: err}
	}
	return v, nil
}

func parseFloat(s, field string) (float64, error) {
	if s == "" {
		return 0, &TranslationError{Reason: "missing required field", Field: field}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, &TranslationError{Reason: "invalid numeric string", Field: field, Err: err}
	}
	return v, nil
}
