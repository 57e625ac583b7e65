package tui

import "github.com/colonyops/toastkit/internal/core/toast"

// sampleRequest returns the canned toast bound to a variant key.
func sampleRequest(v toast.Variant) toast.Request {
	switch v {
	case toast.VariantSuccess:
		return toast.Request{Variant: v, Title: "Saved", Description: "Form submitted successfully!"}
	case toast.VariantWarning:
		return toast.Request{Variant: v, Title: "Heads up", Description: "Disk usage is above 90%."}
	case toast.VariantError:
		return toast.Request{Variant: v, Title: "Request failed", Description: "Could not reach the server.", Action: "Retry"}
	default:
		return toast.Request{Variant: toast.VariantInfo, Description: "A new version is available."}
	}
}

func persistentSample() toast.Request {
	return toast.Request{
		Variant:     toast.VariantInfo,
		Title:       "Pinned",
		Description: "This toast stays until you dismiss it.",
		Persistent:  true,
	}
}
