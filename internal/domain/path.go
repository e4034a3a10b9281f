package domain

// Path — один штрих, как его прислал клиент. Relay внутрь не смотрит:
// идентичность штриха — его позиция в append-only истории комнаты.
type Path string

// SessionID identifies one connected participant. Assigned by the transport
// at connect time and valid for the lifetime of that connection.
type SessionID string
