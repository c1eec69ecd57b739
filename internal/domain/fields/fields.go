package fields

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrInvalidRunningTime    = errors.New("running time must look like '<hours>시간 <minutes>분'")
	ErrInvalidProgress       = errors.New("playback progress must look like '<minutes>:<seconds>'")
	ErrInvalidProductionYear = errors.New("production date must be a year")
)

const (
	hoursSep      = "시간 "
	minutesSuffix = "분"
)

// RunningTime is stored as a human readable string, e.g. "2시간 15분".
type RunningTime string

// Minutes converts the running time to a total amount of minutes.
func (rt RunningTime) Minutes() (int, error) {
	parts := strings.Split(string(rt), hoursSep)
	if len(parts) != 2 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidRunningTime, rt)
	}
	rawMinutes, found := strings.CutSuffix(strings.TrimSpace(parts[1]), minutesSuffix)
	if !found {
		return 0, fmt.Errorf("%w: %q", ErrInvalidRunningTime, rt)
	}
	hours, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidRunningTime, rt)
	}
	minutes, err := strconv.Atoi(strings.TrimSpace(rawMinutes))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidRunningTime, rt)
	}
	return hours*60 + minutes, nil
}

// Progress is the point where a viewer stopped watching, e.g. "47:12".
type Progress string

// SpentMinutes returns minutes*60 + seconds of the stored value.
// The seconds component is added as is, clients rely on this exact number.
func (p Progress) SpentMinutes() (int, error) {
	parts := strings.Split(string(p), ":")
	if len(parts) < 2 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidProgress, p)
	}
	minutes, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidProgress, p)
	}
	seconds, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidProgress, p)
	}
	return minutes*60 + seconds, nil
}

// StorableBeforeYear is the first production year which can't be downloaded for offline viewing.
const StorableBeforeYear = 2015

// CanStore reports whether a movie produced in productionYear may be stored offline.
func CanStore(productionYear string) (bool, error) {
	year, err := strconv.Atoi(strings.TrimSpace(productionYear))
	if err != nil {
		return false, fmt.Errorf("%w: %q", ErrInvalidProductionYear, productionYear)
	}
	return year < StorableBeforeYear, nil
}

type LikeState int16

const (
	LikeNone LikeState = iota
	Like
	Dislike
)
