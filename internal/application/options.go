package application

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/x036ox/video-api/internal/domain"
	"github.com/x036ox/video-api/internal/ports"
)

// Admin search options. Each option consumes the value at the same index;
// range-valued options expect "from/to" syntax, e.g. "1/100".
const (
	videoOptionByID    = "BY_ID"
	videoOptionByTitle = "BY_TITLE"
	videoOptionByViews = "BY_VIEWS"
	videoOptionByLikes = "BY_LIKES"

	userOptionByID          = "BY_ID"
	userOptionByEmail       = "BY_EMAIL"
	userOptionByUsername    = "BY_USERNAME"
	userOptionBySubscribers = "BY_SUBSCRIBERS"
	userOptionByVideo       = "BY_VIDEO"
)

func parseVideoOptions(options, values []string) (ports.VideoFilter, error) {
	if len(options) != len(values) {
		return ports.VideoFilter{}, fmt.Errorf("%w: options and values length mismatch", domain.ErrInvalidArgument)
	}
	var filter ports.VideoFilter
	for i, option := range options {
		value := values[i]
		switch strings.ToUpper(option) {
		case videoOptionByID:
			id, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return ports.VideoFilter{}, fmt.Errorf("%w: option %s value %q", domain.ErrInvalidArgument, option, value)
			}
			filter.ID = id
		case videoOptionByTitle:
			filter.Title = value
		case videoOptionByViews:
			from, to, err := parseRange(option, value)
			if err != nil {
				return ports.VideoFilter{}, err
			}
			from64, to64 := int64(from), int64(to)
			filter.ViewsFrom, filter.ViewsTo = &from64, &to64
		case videoOptionByLikes:
			from, to, err := parseRange(option, value)
			if err != nil {
				return ports.VideoFilter{}, err
			}
			filter.LikesFrom, filter.LikesTo = &from, &to
		}
	}
	return filter, nil
}

func parseUserOptions(options, values []string) (ports.UserFilter, error) {
	if len(options) != len(values) {
		return ports.UserFilter{}, fmt.Errorf("%w: options and values length mismatch", domain.ErrInvalidArgument)
	}
	var filter ports.UserFilter
	for i, option := range options {
		value := values[i]
		switch strings.ToUpper(option) {
		case userOptionByID:
			filter.ID = value
		case userOptionByEmail:
			filter.Email = value
		case userOptionByUsername:
			filter.Username = value
		case userOptionBySubscribers:
			from, to, err := parseRange(option, value)
			if err != nil {
				return ports.UserFilter{}, err
			}
			filter.SubscribersFrom, filter.SubscribersTo = &from, &to
		case userOptionByVideo:
			from, to, err := parseRange(option, value)
			if err != nil {
				return ports.UserFilter{}, err
			}
			filter.VideosFrom, filter.VideosTo = &from, &to
		}
	}
	return filter, nil
}

func parseRange(option, value string) (int, int, error) {
	parts := strings.Split(value, "/")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("%w: option [%s] value [%s], range must be \"from/to\"", domain.ErrInvalidArgument, option, value)
	}
	from, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("%w: option [%s] value [%s]: %v", domain.ErrInvalidArgument, option, value, err)
	}
	to, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("%w: option [%s] value [%s]: %v", domain.ErrInvalidArgument, option, value, err)
	}
	return from, to, nil
}
