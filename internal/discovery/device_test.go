package discovery

import "testing"

func TestDevice_String(t *testing.T) {
	device := &Device{
		ChipID:   "0A1B2C",
		Hostname: "ESP_0A1B2C.local.",
		IP:       "192.168.178.40",
		Port:     80,
	}

	want := "Coop door ESP_0A1B2C (ESP_0A1B2C.local.) at 192.168.178.40:80"
	if device.String() != want {
		t.Errorf("String() = %v, want %v", device.String(), want)
	}
	if device.Name() != "ESP_0A1B2C" {
		t.Errorf("Name() = %v, want ESP_0A1B2C", device.Name())
	}
}

func TestDevice_BaseURL(t *testing.T) {
	tests := []struct {
		name   string
		device *Device
		want   string
	}{
		{"standard port", &Device{IP: "192.168.4.1", Port: 80}, "http://192.168.4.1:80"},
		{"custom port", &Device{IP: "10.0.0.5", Port: 8080}, "http://10.0.0.5:8080"},
		{"ipv6", &Device{IP: "fe80::1", Port: 80}, "http://[fe80::1]:80"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.device.BaseURL(); got != tt.want {
				t.Errorf("BaseURL() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDevice_GetMetadata_NilMap(t *testing.T) {
	device := &Device{}

	if got := device.GetMetadata("path"); got != "" {
		t.Errorf("GetMetadata() with nil map = %v, want empty string", got)
	}
}
