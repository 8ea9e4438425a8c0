package session

// inspectActivity compares a request's network context against the device
// binding captured when the session was created. Empty fields on either
// side never raise suspicion; proxies and mobile carriers legitimately
// rotate addresses, so the result is a signal for the caller, not a verdict.
func inspectActivity(sess *Session, act Activity) (bool, []string) {
	var reasons []string

	if act.IPAddress != "" && sess.Metadata.IPAddress != "" &&
		act.IPAddress != sess.Metadata.IPAddress {
		reasons = append(reasons, "ip_change")
	}
	if act.UserAgent != "" && sess.Metadata.UserAgent != "" &&
		act.UserAgent != sess.Metadata.UserAgent {
		reasons = append(reasons, "user_agent_change")
	}

	return len(reasons) > 0, reasons
}
