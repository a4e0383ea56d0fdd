package lookup

import "errors"

// ErrNotFound indicates the corrections search returned zero result rows.
var ErrNotFound = errors.New("no inmates found")

// ErrCaptchaTimeout indicates the CAPTCHA verification token never appeared
// within the configured wait.
var ErrCaptchaTimeout = errors.New("captcha verification timed out")
